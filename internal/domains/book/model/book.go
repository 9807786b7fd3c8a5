package model

import (
	"time"

	"github.com/google/uuid"
)

// Book represents one title in the catalog together with the number of
// physical copies currently available to lend.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available reports whether at least one copy can be lent out. This is
// an advisory read; the authoritative gate is the conditional stock
// decrement in the repository.
func (b *Book) Available() bool {
	return b.Stock > 0
}

// ListCacheKey is the cache key for the full catalog listing.
const ListCacheKey = "books:list"

// DetailCacheKey returns the cache key for a single book.
func DetailCacheKey(code string) string {
	return "books:detail:" + code
}
