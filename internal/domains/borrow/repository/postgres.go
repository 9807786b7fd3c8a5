package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bookmodel "lending-library/internal/domains/book/model"
	"lending-library/internal/domains/borrow/model"
	membermodel "lending-library/internal/domains/member/model"
	"lending-library/internal/shared/codes"
	"lending-library/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL borrow record repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

const borrowColumns = `id, code, member_code, book_code, borrowed_at, returned_at`

func scanBorrow(row pgx.Row) (*model.BorrowRecord, error) {
	var r model.BorrowRecord
	err := row.Scan(
		&r.ID,
		&r.Code,
		&r.MemberCode,
		&r.BookCode,
		&r.BorrowedAt,
		&r.ReturnedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByCode implements RepositoryInterface.GetByCode.
func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.BorrowRecord, error) {
	query := `
		SELECT ` + borrowColumns + `
		FROM borrow_records
		WHERE code = $1
	`

	rec, err := scanBorrow(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewBorrowNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to get borrow record by code: %w", err)
	}

	return rec, nil
}

// ListByMember implements RepositoryInterface.ListByMember.
func (r *postgresRepository) ListByMember(ctx context.Context, memberCode string) ([]model.BorrowRecord, error) {
	query := `
		SELECT ` + borrowColumns + `
		FROM borrow_records
		WHERE member_code = $1
		ORDER BY borrowed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, memberCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow records: %w", err)
	}
	defer rows.Close()

	var records []model.BorrowRecord
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrow record row: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrow record rows: %w", err)
	}

	return records, nil
}

// CountActiveByMember implements RepositoryInterface.CountActiveByMember.
func (r *postgresRepository) CountActiveByMember(ctx context.Context, memberCode string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM borrow_records
		WHERE member_code = $1 AND returned_at IS NULL
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, memberCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active loans: %w", err)
	}

	return count, nil
}

// CreateActive implements RepositoryInterface.CreateActive. The member
// row lock serializes eligibility checks per member, the advisory lock
// serializes code allocation per namespace, and the guarded stock
// update is the authoritative out-of-stock gate. All of it commits or
// none of it does.
func (r *postgresRepository) CreateActive(ctx context.Context, memberCode, bookCode string, borrowedAt time.Time) (*model.BorrowRecord, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.BorrowRecord, error) {
		var penaltyUntil *time.Time
		err := tx.QueryRow(ctx,
			`SELECT penalty_until FROM members WHERE code = $1 FOR UPDATE`, memberCode,
		).Scan(&penaltyUntil)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, membermodel.NewMemberNotFoundError(memberCode)
			}
			return nil, fmt.Errorf("failed to lock member row: %w", err)
		}

		var active int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM borrow_records WHERE member_code = $1 AND returned_at IS NULL`, memberCode,
		).Scan(&active)
		if err != nil {
			return nil, fmt.Errorf("failed to count active loans: %w", err)
		}

		if active >= model.MaxActiveLoans || (penaltyUntil != nil && penaltyUntil.After(borrowedAt)) {
			return nil, model.ErrMemberNotEligible
		}

		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('borrow_records_code_seq'))`); err != nil {
			return nil, fmt.Errorf("failed to lock borrow code namespace: %w", err)
		}

		last, err := lastIssuedCode(ctx, tx)
		if err != nil {
			return nil, err
		}

		code, err := codes.Next(last, codes.BorrowPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate borrow code: %w", err)
		}

		var stock int
		err = tx.QueryRow(ctx,
			`UPDATE books SET stock = stock - 1, updated_at = now() WHERE code = $1 AND stock > 0 RETURNING stock`,
			bookCode,
		).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var exists bool
				if err := tx.QueryRow(ctx,
					`SELECT EXISTS (SELECT 1 FROM books WHERE code = $1)`, bookCode,
				).Scan(&exists); err != nil {
					return nil, fmt.Errorf("failed to check book existence: %w", err)
				}
				if exists {
					return nil, bookmodel.ErrBookOutOfStock
				}
				return nil, bookmodel.NewBookNotFoundError(bookCode)
			}
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		rec := &model.BorrowRecord{
			ID:         uuid.New(),
			Code:       code,
			MemberCode: memberCode,
			BookCode:   bookCode,
			BorrowedAt: borrowedAt,
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO borrow_records (id, code, member_code, book_code, borrowed_at) VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, rec.Code, rec.MemberCode, rec.BookCode, rec.BorrowedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert borrow record: %w", err)
		}

		return rec, nil
	})
}

// lastIssuedCode returns the greatest borrow code. Ordering by length
// first keeps BW1000 after BW999 once the suffix outgrows three digits.
func lastIssuedCode(ctx context.Context, tx pgx.Tx) (string, error) {
	var last string
	err := tx.QueryRow(ctx,
		`SELECT code FROM borrow_records ORDER BY length(code) DESC, code DESC LIMIT 1`,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read last issued code: %w", err)
	}

	return last, nil
}

// MarkReturned implements RepositoryInterface.MarkReturned.
func (r *postgresRepository) MarkReturned(ctx context.Context, code string, returnedAt time.Time) (*model.BorrowRecord, error) {
	query := `
		UPDATE borrow_records
		SET returned_at = $2
		WHERE code = $1 AND returned_at IS NULL
		RETURNING ` + borrowColumns + `
	`

	rec, err := scanBorrow(r.pool.QueryRow(ctx, query, code, returnedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The record is either missing or already closed.
			var exists bool
			if err := r.pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM borrow_records WHERE code = $1)`, code,
			).Scan(&exists); err != nil {
				return nil, fmt.Errorf("failed to check borrow record existence: %w", err)
			}
			if exists {
				return nil, model.ErrAlreadyReturned
			}
			return nil, model.NewBorrowNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to mark borrow record returned: %w", err)
	}

	return rec, nil
}
