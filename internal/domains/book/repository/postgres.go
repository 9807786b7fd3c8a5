package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lending-library/internal/domains/book/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL book repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

const bookColumns = `id, code, title, author, stock, created_at, updated_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Code,
		&b.Title,
		&b.Author,
		&b.Stock,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List implements RepositoryInterface.List.
func (r *postgresRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}

	return books, nil
}

// GetByCode implements RepositoryInterface.GetByCode.
func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE code = $1
	`

	b, err := scanBook(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewBookNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to get book by code: %w", err)
	}

	return b, nil
}

// Create implements RepositoryInterface.Create.
func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, code, title, author, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.ID,
		book.Code,
		book.Title,
		book.Author,
		book.Stock,
	).Scan(&book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrBookCodeExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// Update implements RepositoryInterface.Update.
func (r *postgresRepository) Update(ctx context.Context, code string, req model.UpdateBookRequest) (*model.Book, error) {
	query := `
		UPDATE books
		SET title      = COALESCE($2, title),
		    author     = COALESCE($3, author),
		    stock      = COALESCE($4, stock),
		    updated_at = now()
		WHERE code = $1
		RETURNING ` + bookColumns + `
	`

	b, err := scanBook(r.pool.QueryRow(ctx, query, code, req.Title, req.Author, req.Stock))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewBookNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return b, nil
}

// Delete implements RepositoryInterface.Delete. The guard against
// deleting a book with active loans and the delete itself are one
// statement, so a borrow committing in between cannot slip through.
func (r *postgresRepository) Delete(ctx context.Context, code string) error {
	query := `
		DELETE FROM books
		WHERE code = $1
		  AND NOT EXISTS (
			SELECT 1 FROM borrow_records
			WHERE book_code = $1 AND returned_at IS NULL
		  )
	`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the book does not exist or an active loan blocked the
		// delete; look again to tell the two apart.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM books WHERE code = $1)`, code,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check book existence: %w", err)
		}
		if exists {
			return model.ErrBookHasActiveLoans
		}
		return model.NewBookNotFoundError(code)
	}

	return nil
}

// DecrementStock implements RepositoryInterface.DecrementStock.
func (r *postgresRepository) DecrementStock(ctx context.Context, code string) (int, error) {
	query := `
		UPDATE books
		SET stock = stock - 1, updated_at = now()
		WHERE code = $1 AND stock > 0
		RETURNING stock
	`

	var stock int
	err := r.pool.QueryRow(ctx, query, code).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := r.pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM books WHERE code = $1)`, code,
			).Scan(&exists); err != nil {
				return 0, fmt.Errorf("failed to check book existence: %w", err)
			}
			if exists {
				return 0, model.ErrBookOutOfStock
			}
			return 0, model.NewBookNotFoundError(code)
		}
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return stock, nil
}

// IncrementStock implements RepositoryInterface.IncrementStock.
func (r *postgresRepository) IncrementStock(ctx context.Context, code string) (int, error) {
	query := `
		UPDATE books
		SET stock = stock + 1, updated_at = now()
		WHERE code = $1
		RETURNING stock
	`

	var stock int
	err := r.pool.QueryRow(ctx, query, code).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.NewBookNotFoundError(code)
		}
		return 0, fmt.Errorf("failed to increment stock: %w", err)
	}

	return stock, nil
}
