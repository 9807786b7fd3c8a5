package service

import (
	"context"

	"lending-library/internal/domains/borrow/model"
)

// ServiceInterface is the borrow workflow exposed to the HTTP layer.
type ServiceInterface interface {
	// BorrowBook lends bookCode to memberCode and returns the created
	// record in Active state.
	BorrowBook(ctx context.Context, memberCode, bookCode string) (*model.BorrowRecord, error)

	// ReturnBook closes the loan identified by borrowCode, restores the
	// book's stock and, when the return is overdue, suspends the member.
	ReturnBook(ctx context.Context, borrowCode string) (*model.BorrowRecord, error)

	// ListMemberBorrows returns a member's borrow history, newest first.
	ListMemberBorrows(ctx context.Context, memberCode string) ([]model.BorrowRecord, error)
}
