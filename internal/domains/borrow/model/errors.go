package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBorrowNotFound is returned when no borrow record carries the
	// requested code.
	ErrBorrowNotFound = errors.New("borrow record not found")

	// ErrMemberNotEligible is returned when the member is at the active
	// loan limit or under penalty.
	ErrMemberNotEligible = errors.New("member cannot borrow more books")

	// ErrAlreadyReturned is returned when returning a record whose
	// ReturnedAt is already set. A record cannot be returned twice.
	ErrAlreadyReturned = errors.New("book has already been returned")

	// ErrReturnInconsistent is returned when the stock increment failed
	// after the record was already marked returned. The record and the
	// ledger disagree at that point; this needs operator reconciliation
	// and must never be treated as an ordinary business-rule failure.
	ErrReturnInconsistent = errors.New("return committed but stock not restored")
)

// NewBorrowNotFoundError attaches the offending code to ErrBorrowNotFound.
func NewBorrowNotFoundError(code string) error {
	return fmt.Errorf("%w: code=%s", ErrBorrowNotFound, code)
}

// IsNotFoundError checks if err is a borrow record not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBorrowNotFound)
}

// IsConsistencyError checks if err is a returned-but-not-restocked fault.
func IsConsistencyError(err error) bool {
	return errors.Is(err, ErrReturnInconsistent)
}
