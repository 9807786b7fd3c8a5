package repository

import (
	"context"
	"time"

	"lending-library/internal/domains/member/model"
)

// RepositoryInterface defines the data access contract for the member
// registry.
type RepositoryInterface interface {
	// List returns all members ordered by code.
	List(ctx context.Context) ([]model.Member, error)

	// GetByCode returns the member carrying code.
	// Returns ErrMemberNotFound if no such member exists.
	GetByCode(ctx context.Context, code string) (*model.Member, error)

	// Create inserts a new member. An empty member.Code means the next
	// code in the member namespace is allocated; allocation and insert
	// run in one transaction serialized by an advisory lock.
	// Returns ErrMemberCodeExists when the code is already taken.
	Create(ctx context.Context, member *model.Member) error

	// UpdateName renames a member.
	// Returns ErrMemberNotFound if no such member exists.
	UpdateName(ctx context.Context, code, name string) (*model.Member, error)

	// Delete removes a member from the registry. Deletion is refused
	// while the member still has books out.
	// Returns ErrMemberNotFound or ErrMemberHasActiveLoans.
	Delete(ctx context.Context, code string) error

	// SetPenaltyUntil atomically overwrites the member's penalty expiry.
	// Penalties do not stack; each call replaces the previous value.
	// Returns ErrMemberNotFound if no such member exists.
	SetPenaltyUntil(ctx context.Context, code string, until time.Time) (*model.Member, error)
}
