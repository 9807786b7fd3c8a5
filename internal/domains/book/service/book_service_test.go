package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-library/internal/domains/book/model"
)

// mapCache is an in-memory cache.Cache that stores JSON, like the real
// Redis client does.
type mapCache struct {
	data    map[string][]byte
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.failGet {
		return false, errors.New("cache unavailable")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) Ping(ctx context.Context) error { return nil }

// fakeBookRepo is a map-backed catalog that counts repository reads so
// the tests can tell a cache hit from a miss.
type fakeBookRepo struct {
	books     map[string]*model.Book
	listCalls int
	getCalls  int
}

func newFakeBookRepo(books ...*model.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[string]*model.Book)}
	for _, b := range books {
		r.books[b.Code] = b
	}
	return r
}

func (r *fakeBookRepo) List(ctx context.Context) ([]model.Book, error) {
	r.listCalls++
	out := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookRepo) GetByCode(ctx context.Context, code string) (*model.Book, error) {
	r.getCalls++
	b, ok := r.books[code]
	if !ok {
		return nil, model.NewBookNotFoundError(code)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) Create(ctx context.Context, book *model.Book) error {
	if _, ok := r.books[book.Code]; ok {
		return model.ErrBookCodeExists
	}
	cp := *book
	r.books[book.Code] = &cp
	return nil
}

func (r *fakeBookRepo) Update(ctx context.Context, code string, req model.UpdateBookRequest) (*model.Book, error) {
	b, ok := r.books[code]
	if !ok {
		return nil, model.NewBookNotFoundError(code)
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Stock != nil {
		b.Stock = *req.Stock
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, code string) error {
	if _, ok := r.books[code]; !ok {
		return model.NewBookNotFoundError(code)
	}
	delete(r.books, code)
	return nil
}

func (r *fakeBookRepo) DecrementStock(ctx context.Context, code string) (int, error) {
	b, ok := r.books[code]
	if !ok {
		return 0, model.NewBookNotFoundError(code)
	}
	if b.Stock <= 0 {
		return 0, model.ErrBookOutOfStock
	}
	b.Stock--
	return b.Stock, nil
}

func (r *fakeBookRepo) IncrementStock(ctx context.Context, code string) (int, error) {
	b, ok := r.books[code]
	if !ok {
		return 0, model.NewBookNotFoundError(code)
	}
	b.Stock++
	return b.Stock, nil
}

func testBook(code string, stock int) *model.Book {
	return &model.Book{
		ID:    uuid.New(),
		Code:  code,
		Title: "Book " + code,
		Stock: stock,
	}
}

func TestListBooksCaching(t *testing.T) {
	repo := newFakeBookRepo(testBook("B001", 3))
	c := newMapCache()
	svc := NewService(repo, c)

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, repo.listCalls)

	// Second read is served from the cache.
	books, err = svc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestGetBookByCodeCaching(t *testing.T) {
	repo := newFakeBookRepo(testBook("B001", 3))
	c := newMapCache()
	svc := NewService(repo, c)

	book, err := svc.GetBookByCode(context.Background(), "B001")
	require.NoError(t, err)
	assert.Equal(t, "B001", book.Code)
	assert.Equal(t, 1, repo.getCalls)

	_, err = svc.GetBookByCode(context.Background(), "B001")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetBookByCodeCacheFailureFallsThrough(t *testing.T) {
	repo := newFakeBookRepo(testBook("B001", 3))
	c := newMapCache()
	c.failGet = true
	svc := NewService(repo, c)

	book, err := svc.GetBookByCode(context.Background(), "B001")
	require.NoError(t, err)
	assert.Equal(t, "B001", book.Code)
	assert.Equal(t, 1, repo.getCalls)
}

func TestCreateBookInvalidatesListCache(t *testing.T) {
	repo := newFakeBookRepo(testBook("B001", 3))
	c := newMapCache()
	svc := NewService(repo, c)

	_, err := svc.ListBooks(context.Background())
	require.NoError(t, err)

	_, err = svc.CreateBook(context.Background(), model.CreateBookRequest{
		Code: "B002", Title: "Second", Author: "A", Stock: 1,
	})
	require.NoError(t, err)

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestUpdateBookInvalidatesDetailCache(t *testing.T) {
	repo := newFakeBookRepo(testBook("B001", 3))
	c := newMapCache()
	svc := NewService(repo, c)

	_, err := svc.GetBookByCode(context.Background(), "B001")
	require.NoError(t, err)

	newTitle := "Renamed"
	_, err = svc.UpdateBook(context.Background(), "B001", model.UpdateBookRequest{Title: &newTitle})
	require.NoError(t, err)

	book, err := svc.GetBookByCode(context.Background(), "B001")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", book.Title)
}

func TestDeleteBookUnknownCode(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo, newMapCache())

	err := svc.DeleteBook(context.Background(), "B404")
	assert.True(t, model.IsNotFoundError(err))
}
