package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMemberNotFound is returned when no member carries the requested code.
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberCodeExists is returned when registering a member with a
	// code that is already taken.
	ErrMemberCodeExists = errors.New("member code already exists")

	// ErrMemberHasActiveLoans is returned when deleting a member who
	// still has books out.
	ErrMemberHasActiveLoans = errors.New("member still has active loans")
)

// NewMemberNotFoundError attaches the offending code to ErrMemberNotFound.
func NewMemberNotFoundError(code string) error {
	return fmt.Errorf("%w: code=%s", ErrMemberNotFound, code)
}

// IsNotFoundError checks if err is a member not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}
