package repository

import (
	"context"
	"time"

	"lending-library/internal/domains/borrow/model"
)

// RepositoryInterface defines the data access contract for borrow
// records. CreateActive is the authoritative gate of the borrow
// workflow; everything the service checks beforehand is advisory.
type RepositoryInterface interface {
	// GetByCode returns the borrow record carrying code.
	// Returns ErrBorrowNotFound if no such record exists.
	GetByCode(ctx context.Context, code string) (*model.BorrowRecord, error)

	// ListByMember returns all records for a member, most recent first.
	ListByMember(ctx context.Context, memberCode string) ([]model.BorrowRecord, error)

	// CountActiveByMember returns the member's number of open loans.
	CountActiveByMember(ctx context.Context, memberCode string) (int, error)

	// CreateActive runs the whole borrow mutation as one transaction:
	// it locks the member row, re-checks eligibility against that
	// consistent snapshot, allocates the next borrow code under the
	// namespace lock, decrements the book's stock through the guarded
	// update and inserts the record in Active state. Losing the stock
	// race fails the whole unit with ErrBookOutOfStock and persists
	// nothing.
	// Returns ErrMemberNotFound, ErrMemberNotEligible, ErrBookNotFound
	// or ErrBookOutOfStock.
	CreateActive(ctx context.Context, memberCode, bookCode string, borrowedAt time.Time) (*model.BorrowRecord, error)

	// MarkReturned closes the record by setting ReturnedAt. The update
	// is guarded on ReturnedAt still being unset, so the transition is
	// irreversible and a concurrent double return loses cleanly.
	// Returns ErrBorrowNotFound or ErrAlreadyReturned.
	MarkReturned(ctx context.Context, code string, returnedAt time.Time) (*model.BorrowRecord, error)
}
