package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lending-library/internal/domains/member/model"
	"lending-library/internal/shared/codes"
	"lending-library/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL member repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

const memberColumns = `id, code, name, penalty_until, created_at, updated_at`

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	err := row.Scan(
		&m.ID,
		&m.Code,
		&m.Name,
		&m.PenaltyUntil,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List implements RepositoryInterface.List.
func (r *postgresRepository) List(ctx context.Context) ([]model.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member rows: %w", err)
	}

	return members, nil
}

// GetByCode implements RepositoryInterface.GetByCode.
func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE code = $1
	`

	m, err := scanMember(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewMemberNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to get member by code: %w", err)
	}

	return m, nil
}

// Create implements RepositoryInterface.Create. When no code is given,
// allocation of the next member code and the insert run in a single
// transaction; the advisory lock serializes the read-increment-insert
// unit per namespace so concurrent registrations cannot derive the same
// code from the same last-issued snapshot.
func (r *postgresRepository) Create(ctx context.Context, member *model.Member) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if member.Code == "" {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('members_code_seq'))`); err != nil {
				return fmt.Errorf("failed to lock member code namespace: %w", err)
			}

			last, err := lastIssuedCode(ctx, tx, "members")
			if err != nil {
				return err
			}

			member.Code, err = codes.Next(last, codes.MemberPrefix)
			if err != nil {
				return fmt.Errorf("failed to generate member code: %w", err)
			}
		}

		query := `
			INSERT INTO members (id, code, name)
			VALUES ($1, $2, $3)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			member.ID,
			member.Code,
			member.Name,
		).Scan(&member.CreatedAt, &member.UpdatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return model.ErrMemberCodeExists
			}
			return fmt.Errorf("failed to insert member: %w", err)
		}

		return nil
	})
}

// lastIssuedCode returns the greatest issued code. Ordering by length
// first keeps M1000 after M999 once the suffix outgrows three digits.
func lastIssuedCode(ctx context.Context, tx pgx.Tx, table string) (string, error) {
	query := fmt.Sprintf(`SELECT code FROM %s ORDER BY length(code) DESC, code DESC LIMIT 1`, table)

	var last string
	err := tx.QueryRow(ctx, query).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read last issued code: %w", err)
	}

	return last, nil
}

// UpdateName implements RepositoryInterface.UpdateName.
func (r *postgresRepository) UpdateName(ctx context.Context, code, name string) (*model.Member, error) {
	query := `
		UPDATE members
		SET name = $2, updated_at = now()
		WHERE code = $1
		RETURNING ` + memberColumns + `
	`

	m, err := scanMember(r.pool.QueryRow(ctx, query, code, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewMemberNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return m, nil
}

// Delete implements RepositoryInterface.Delete. The guard against
// deleting a member with active loans and the delete itself are one
// statement, so a borrow committing in between cannot slip through.
func (r *postgresRepository) Delete(ctx context.Context, code string) error {
	query := `
		DELETE FROM members
		WHERE code = $1
		  AND NOT EXISTS (
			SELECT 1 FROM borrow_records
			WHERE member_code = $1 AND returned_at IS NULL
		  )
	`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the member does not exist or an active loan blocked the
		// delete; look again to tell the two apart.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM members WHERE code = $1)`, code,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check member existence: %w", err)
		}
		if exists {
			return model.ErrMemberHasActiveLoans
		}
		return model.NewMemberNotFoundError(code)
	}

	return nil
}

// SetPenaltyUntil implements RepositoryInterface.SetPenaltyUntil.
func (r *postgresRepository) SetPenaltyUntil(ctx context.Context, code string, until time.Time) (*model.Member, error) {
	query := `
		UPDATE members
		SET penalty_until = $2, updated_at = now()
		WHERE code = $1
		RETURNING ` + memberColumns + `
	`

	m, err := scanMember(r.pool.QueryRow(ctx, query, code, until))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewMemberNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to set penalty: %w", err)
	}

	return m, nil
}
