package repository

import (
	"context"

	"lending-library/internal/domains/book/model"
)

// RepositoryInterface defines the data access contract for the catalog
// and the stock ledger. Stock is only ever mutated through the two
// atomic delta operations below (plus the borrow workflow's own
// transactional decrement).
type RepositoryInterface interface {
	// List returns the whole catalog ordered by code.
	List(ctx context.Context) ([]model.Book, error)

	// GetByCode returns the book carrying code.
	// Returns ErrBookNotFound if no such book exists.
	GetByCode(ctx context.Context, code string) (*model.Book, error)

	// Create inserts a new book.
	// Returns ErrBookCodeExists when the code is already taken.
	Create(ctx context.Context, book *model.Book) error

	// Update applies the non-nil fields of req to the book.
	// Returns ErrBookNotFound if no such book exists.
	Update(ctx context.Context, code string, req model.UpdateBookRequest) (*model.Book, error)

	// Delete removes a book from the catalog. Deletion is refused while
	// active borrow records still reference the book.
	// Returns ErrBookNotFound or ErrBookHasActiveLoans.
	Delete(ctx context.Context, code string) error

	// DecrementStock atomically subtracts one copy and returns the
	// updated stock. The decrement and the stock > 0 check are a single
	// guarded statement so two concurrent borrows of the last copy
	// cannot both succeed.
	// Returns ErrBookOutOfStock when no copy is left, ErrBookNotFound
	// when the code is unknown.
	DecrementStock(ctx context.Context, code string) (int, error)

	// IncrementStock atomically adds one copy back and returns the
	// updated stock. Always valid for an existing book; a return is
	// never refused.
	// Returns ErrBookNotFound when the code is unknown.
	IncrementStock(ctx context.Context, code string) (int, error)
}
