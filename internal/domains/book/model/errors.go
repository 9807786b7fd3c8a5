package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when no book carries the requested code.
	ErrBookNotFound = errors.New("book not found")

	// ErrBookCodeExists is returned when creating a book with a code that
	// is already taken.
	ErrBookCodeExists = errors.New("book code already exists")

	// ErrBookOutOfStock is returned when a stock decrement finds no copy
	// left to lend.
	ErrBookOutOfStock = errors.New("book out of stock")

	// ErrBookHasActiveLoans is returned when deleting a book that active
	// borrow records still reference.
	ErrBookHasActiveLoans = errors.New("book has active loans")
)

// NewBookNotFoundError attaches the offending code to ErrBookNotFound.
func NewBookNotFoundError(code string) error {
	return fmt.Errorf("%w: code=%s", ErrBookNotFound, code)
}

// IsNotFoundError checks if err is a book not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookNotFound)
}

// IsOutOfStockError checks if err is an out of stock error.
func IsOutOfStockError(err error) bool {
	return errors.Is(err, ErrBookOutOfStock)
}
