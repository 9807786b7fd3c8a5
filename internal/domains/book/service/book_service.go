package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lending-library/internal/domains/book/model"
	"lending-library/internal/domains/book/repository"
	"lending-library/pkg/cache"
	"lending-library/pkg/logger"
)

const (
	listCacheTTL   = 5 * time.Minute
	detailCacheTTL = 10 * time.Minute
)

type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewService creates a new catalog service.
func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &BookService{
		repo:  repo,
		cache: cache,
	}
}

// ListBooks implements ServiceInterface.ListBooks.
func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	var cached []model.Book
	found, err := s.cache.Get(ctx, model.ListCacheKey, &cached)
	if err != nil {
		logger.Error("book list cache read failed", err)
	}
	if found {
		return cached, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	if err := s.cache.Set(ctx, model.ListCacheKey, books, listCacheTTL); err != nil {
		logger.Error("book list cache write failed", err)
	}

	return books, nil
}

// GetBookByCode implements ServiceInterface.GetBookByCode.
func (s *BookService) GetBookByCode(ctx context.Context, code string) (*model.Book, error) {
	cacheKey := model.DetailCacheKey(code)

	var cached model.Book
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Error("book detail cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	book, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, book, detailCacheTTL); err != nil {
		logger.Error("book detail cache write failed", err)
	}

	return book, nil
}

// CreateBook implements ServiceInterface.CreateBook.
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	book := &model.Book{
		ID:     uuid.New(),
		Code:   req.Code,
		Title:  req.Title,
		Author: req.Author,
		Stock:  req.Stock,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.invalidate(ctx, book.Code)

	logger.Info("book created", map[string]interface{}{
		"code":  book.Code,
		"stock": book.Stock,
	})

	return book, nil
}

// UpdateBook implements ServiceInterface.UpdateBook.
func (s *BookService) UpdateBook(ctx context.Context, code string, req model.UpdateBookRequest) (*model.Book, error) {
	book, err := s.repo.Update(ctx, code, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, code)

	return book, nil
}

// DeleteBook implements ServiceInterface.DeleteBook. Deletion is refused
// while active loans reference the book.
func (s *BookService) DeleteBook(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	s.invalidate(ctx, code)

	logger.Info("book deleted", map[string]interface{}{"code": code})

	return nil
}

func (s *BookService) invalidate(ctx context.Context, code string) {
	if err := s.cache.Delete(ctx, model.ListCacheKey, model.DetailCacheKey(code)); err != nil {
		logger.Error("book cache invalidation failed", err)
	}
}
