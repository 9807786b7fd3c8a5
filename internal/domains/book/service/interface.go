package service

import (
	"context"

	"lending-library/internal/domains/book/model"
)

// ServiceInterface defines the catalog business logic.
type ServiceInterface interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBookByCode(ctx context.Context, code string) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, code string, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, code string) error
}
