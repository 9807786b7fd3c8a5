package model

import (
	"time"

	"github.com/google/uuid"
)

// Lending policy. These mirror the library's circulation rules and are
// deliberately not configurable.
const (
	// MaxActiveLoans is the number of books a member may have out at once.
	MaxActiveLoans = 2

	// LoanPeriod is how long a member may keep a book before the return
	// counts as overdue.
	LoanPeriod = 7 * 24 * time.Hour

	// PenaltyDuration is the borrowing suspension imposed for an overdue
	// return. Penalties never stack; a new offence resets the expiry.
	PenaltyDuration = 3 * 24 * time.Hour
)

// BorrowRecord is one loan of one book copy to one member. It references
// both sides by code; the record is the only entity allowed to do so.
// ReturnedAt is nil while the loan is active and immutable once set.
type BorrowRecord struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	MemberCode string     `json:"member_code"`
	BookCode   string     `json:"book_code"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// Active reports whether the book is still out.
func (r *BorrowRecord) Active() bool {
	return r.ReturnedAt == nil
}

// DueAt returns the moment the loan period ends.
func (r *BorrowRecord) DueAt() time.Time {
	return r.BorrowedAt.Add(LoanPeriod)
}

// OverdueAt reports whether returning at now is late. Returning exactly
// at the due moment is still on time.
func (r *BorrowRecord) OverdueAt(now time.Time) bool {
	return now.After(r.DueAt())
}
