// Package codes generates the sequential human-readable identifiers used
// for members (M001, M002, ...) and borrow records (BW001, BW002, ...).
//
// Each prefix is an independent namespace. Allocation must be serialized
// per namespace by the caller (the repositories take a pg advisory lock
// for the namespace inside the issuing transaction), otherwise two
// concurrent callers can derive the same next code from the same
// last-issued snapshot.
package codes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MemberPrefix is the namespace prefix for member codes.
	MemberPrefix = "M"

	// BorrowPrefix is the namespace prefix for borrow record codes.
	BorrowPrefix = "BW"

	// width is the minimum number of digits in the numeric suffix.
	// Codes beyond 999 grow naturally to four digits.
	width = 3
)

// ErrMalformedCode is returned when a previously issued code cannot be
// parsed, which means the sequence is corrupt and needs operator attention.
var ErrMalformedCode = errors.New("malformed identifier code")

// Seed returns the first code of a namespace, e.g. M001.
func Seed(prefix string) string {
	return fmt.Sprintf("%s%0*d", prefix, width, 1)
}

// Next derives the code following last within the prefix namespace.
// An empty last means nothing has been issued yet and the seed is returned.
func Next(last, prefix string) (string, error) {
	if last == "" {
		return Seed(prefix), nil
	}

	if !strings.HasPrefix(last, prefix) {
		return "", fmt.Errorf("%w: %q does not carry prefix %q", ErrMalformedCode, last, prefix)
	}

	n, err := strconv.Atoi(last[len(prefix):])
	if err != nil {
		return "", fmt.Errorf("%w: %q has a non-numeric suffix", ErrMalformedCode, last)
	}

	return fmt.Sprintf("%s%0*d", prefix, width, n+1), nil
}
