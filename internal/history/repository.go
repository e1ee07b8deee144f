package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Repository is the PostgreSQL-backed Draw History Store.
// ⭐ SSOT: lottery.draws 테이블 접근은 여기서만
//
// The unique constraint on draw_date is the idempotency guard: a concurrent
// run inserting the same date surfaces ErrDuplicateDate instead of
// overwriting, which doubles as the optimistic-concurrency mechanism.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new draw history repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Schema:
//
//	CREATE SCHEMA IF NOT EXISTS lottery;
//	CREATE TABLE lottery.draws (
//	    draw_date  date PRIMARY KEY,
//	    number_1   smallint NOT NULL,
//	    number_2   smallint NOT NULL,
//	    number_3   smallint NOT NULL,
//	    number_4   smallint NOT NULL,
//	    number_5   smallint NOT NULL,
//	    source     text NOT NULL DEFAULT '',
//	    fetched_at timestamptz NOT NULL DEFAULT now()
//	);

// Append inserts a draw. Returns ErrDuplicateDate when the date is already
// present; the existing row is never touched.
func (r *Repository) Append(ctx context.Context, draw contracts.DrawRecord) error {
	nums, err := contracts.NewNumberSet(draw.Numbers)
	if err != nil {
		return fmt.Errorf("append draw %s: %w", draw.Key(), err)
	}

	query := `
		INSERT INTO lottery.draws (draw_date, number_1, number_2, number_3, number_4, number_5, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.pool.Exec(ctx, query,
		contracts.Midnight(draw.DrawDate),
		nums[0], nums[1], nums[2], nums[3], nums[4],
		draw.Source,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("draw %s: %w", draw.Key(), contracts.ErrDuplicateDate)
		}
		return fmt.Errorf("append draw %s: %w", draw.Key(), err)
	}

	return nil
}

// Get returns the draw for a date, or (nil, nil) when absent.
func (r *Repository) Get(ctx context.Context, date time.Time) (*contracts.DrawRecord, error) {
	query := `
		SELECT draw_date, number_1, number_2, number_3, number_4, number_5, source, fetched_at
		FROM lottery.draws
		WHERE draw_date = $1`

	draw, err := scanDraw(r.pool.QueryRow(ctx, query, contracts.Midnight(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draw %s: %w", contracts.DateKey(date), err)
	}

	return draw, nil
}

// All returns every draw, ascending by date.
func (r *Repository) All(ctx context.Context) ([]contracts.DrawRecord, error) {
	query := `
		SELECT draw_date, number_1, number_2, number_3, number_4, number_5, source, fetched_at
		FROM lottery.draws
		ORDER BY draw_date`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	defer rows.Close()

	var draws []contracts.DrawRecord
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		draws = append(draws, *draw)
	}

	return draws, rows.Err()
}

// Latest returns the most recent draw, or (nil, nil) when empty.
func (r *Repository) Latest(ctx context.Context) (*contracts.DrawRecord, error) {
	query := `
		SELECT draw_date, number_1, number_2, number_3, number_4, number_5, source, fetched_at
		FROM lottery.draws
		ORDER BY draw_date DESC
		LIMIT 1`

	draw, err := scanDraw(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest draw: %w", err)
	}

	return draw, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraw(row rowScanner) (*contracts.DrawRecord, error) {
	var d contracts.DrawRecord
	nums := make([]int16, 5)
	if err := row.Scan(
		&d.DrawDate, &nums[0], &nums[1], &nums[2], &nums[3], &nums[4],
		&d.Source, &d.FetchedAt,
	); err != nil {
		return nil, err
	}

	d.Numbers = make([]int, 5)
	for i, n := range nums {
		d.Numbers[i] = int(n)
	}
	d.DrawDate = contracts.Midnight(d.DrawDate)

	return &d, nil
}

// isUniqueViolation reports whether err is a Postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
