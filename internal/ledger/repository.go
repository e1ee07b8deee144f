package ledger

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

// Repository is the PostgreSQL-backed Prediction Ledger.
// ⭐ SSOT: lottery.predictions 테이블 접근은 여기서만
//
// The partial unique index on (draw_date, strategy_id) WHERE NOT superseded
// enforces one live prediction per key in the store itself; a concurrent
// creator gets ErrAlreadyExists instead of a silent overwrite. UpdateMatch
// is guarded by `match_count IS NULL` so a historical score can never be
// rewritten, even by a racing second reconciliation pass.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new prediction ledger repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Schema:
//
//	CREATE TABLE lottery.predictions (
//	    id                bigserial PRIMARY KEY,
//	    draw_date         date NOT NULL,
//	    strategy_id       text NOT NULL,
//	    picked_1          smallint NOT NULL,
//	    picked_2          smallint NOT NULL,
//	    picked_3          smallint NOT NULL,
//	    picked_4          smallint NOT NULL,
//	    picked_5          smallint NOT NULL,
//	    seed              bigint NOT NULL,
//	    low_confidence    boolean NOT NULL DEFAULT false,
//	    created_at        timestamptz NOT NULL DEFAULT now(),
//	    match_count       smallint,
//	    match_detail      smallint[],
//	    superseded        boolean NOT NULL DEFAULT false,
//	    superseded_reason text NOT NULL DEFAULT ''
//	);
//	CREATE UNIQUE INDEX predictions_live_key
//	    ON lottery.predictions (draw_date, strategy_id)
//	    WHERE NOT superseded;

const selectColumns = `
	draw_date, strategy_id, picked_1, picked_2, picked_3, picked_4, picked_5,
	seed, low_confidence, created_at, match_count, match_detail,
	superseded, superseded_reason`

// Create inserts a new live prediction. Returns ErrAlreadyExists when a live
// record already holds the key.
func (r *Repository) Create(ctx context.Context, pred contracts.PredictionRecord) error {
	return r.insert(ctx, r.pool, pred)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *Repository) insert(ctx context.Context, db execer, pred contracts.PredictionRecord) error {
	picks, err := contracts.NewNumberSet(pred.Picks)
	if err != nil {
		return fmt.Errorf("create prediction %s: %w", pred.Key(), err)
	}

	createdAt := pred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO lottery.predictions
			(draw_date, strategy_id, picked_1, picked_2, picked_3, picked_4, picked_5,
			 seed, low_confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = db.Exec(ctx, query,
		contracts.Midnight(pred.DrawDate), pred.Strategy,
		picks[0], picks[1], picks[2], picks[3], picks[4],
		pred.Seed, pred.LowConfidence, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("prediction %s: %w", pred.Key(), contracts.ErrAlreadyExists)
		}
		return fmt.Errorf("create prediction %s: %w", pred.Key(), err)
	}

	return nil
}

// ForceOverwrite supersedes the live record for the key (retained with
// superseded=true and the reason) and inserts pred in its place, in one
// transaction.
func (r *Repository) ForceOverwrite(ctx context.Context, pred contracts.PredictionRecord, reason string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("force overwrite %s: begin: %w", pred.Key(), err)
	}
	defer tx.Rollback(ctx)

	supersede := `
		UPDATE lottery.predictions
		SET superseded = true, superseded_reason = $3
		WHERE draw_date = $1 AND strategy_id = $2 AND NOT superseded`

	if _, err := tx.Exec(ctx, supersede,
		contracts.Midnight(pred.DrawDate), pred.Strategy, reason,
	); err != nil {
		return fmt.Errorf("force overwrite %s: supersede: %w", pred.Key(), err)
	}

	if err := r.insert(ctx, tx, pred); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Restore inserts a full snapshot row as-is, match fields and superseded
// state included. Live rows that collide with an existing live key are left
// untouched. Intended for seeding a database from an exported snapshot.
func (r *Repository) Restore(ctx context.Context, pred contracts.PredictionRecord) (bool, error) {
	picks, err := contracts.NewNumberSet(pred.Picks)
	if err != nil {
		return false, fmt.Errorf("restore prediction %s: %w", pred.Key(), err)
	}

	var matchCount *int16
	var matchDetail []int16
	if pred.MatchCount != nil {
		mc := int16(*pred.MatchCount)
		matchCount = &mc
		matchDetail = make([]int16, len(pred.MatchDetail))
		for i, n := range pred.MatchDetail {
			matchDetail[i] = int16(n)
		}
	}

	query := `
		INSERT INTO lottery.predictions
			(draw_date, strategy_id, picked_1, picked_2, picked_3, picked_4, picked_5,
			 seed, low_confidence, created_at, match_count, match_detail,
			 superseded, superseded_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (draw_date, strategy_id) WHERE NOT superseded DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		contracts.Midnight(pred.DrawDate), pred.Strategy,
		picks[0], picks[1], picks[2], picks[3], picks[4],
		pred.Seed, pred.LowConfidence, pred.CreatedAt,
		matchCount, matchDetail,
		pred.Superseded, pred.SupersededReason,
	)
	if err != nil {
		return false, fmt.Errorf("restore prediction %s: %w", pred.Key(), err)
	}

	return tag.RowsAffected() > 0, nil
}

// Get returns the live prediction for a key, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, date time.Time, strategy contracts.StrategyID) (*contracts.PredictionRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM lottery.predictions
		WHERE draw_date = $1 AND strategy_id = $2 AND NOT superseded`

	rec, err := scanPrediction(r.pool.QueryRow(ctx, query, contracts.Midnight(date), strategy))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("prediction %s/%s: %w", contracts.DateKey(date), strategy, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction %s/%s: %w", contracts.DateKey(date), strategy, err)
	}

	return rec, nil
}

// GetUnscored returns live predictions with null match fields, ascending by
// date then strategy.
func (r *Repository) GetUnscored(ctx context.Context) ([]contracts.PredictionRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM lottery.predictions
		WHERE match_count IS NULL AND NOT superseded
		ORDER BY draw_date, strategy_id`

	return r.list(ctx, query)
}

// UpdateMatch writes the match fields of an unscored live prediction. The
// IS NULL guard makes the transition single-shot at the store level.
func (r *Repository) UpdateMatch(ctx context.Context, date time.Time, strategy contracts.StrategyID, matchCount int, matchDetail []int) error {
	detail := make([]int16, len(matchDetail))
	for i, n := range matchDetail {
		detail[i] = int16(n)
	}

	query := `
		UPDATE lottery.predictions
		SET match_count = $3, match_detail = $4
		WHERE draw_date = $1 AND strategy_id = $2 AND NOT superseded
		  AND match_count IS NULL`

	tag, err := r.pool.Exec(ctx, query, contracts.Midnight(date), strategy, matchCount, detail)
	if err != nil {
		return fmt.Errorf("update match %s/%s: %w", contracts.DateKey(date), strategy, err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish missing key from already-scored.
		if _, err := r.Get(ctx, date, strategy); err != nil {
			return err
		}
		return fmt.Errorf("prediction %s/%s: %w", contracts.DateKey(date), strategy, contracts.ErrAlreadyScored)
	}

	return nil
}

// All returns every live prediction, ascending by date then strategy.
func (r *Repository) All(ctx context.Context) ([]contracts.PredictionRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM lottery.predictions
		WHERE NOT superseded
		ORDER BY draw_date, strategy_id`

	return r.list(ctx, query)
}

// AllIncludingSuperseded returns every row, superseded ones included.
func (r *Repository) AllIncludingSuperseded(ctx context.Context) ([]contracts.PredictionRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM lottery.predictions
		ORDER BY draw_date, strategy_id, superseded DESC, created_at`

	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string) ([]contracts.PredictionRecord, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var recs []contracts.PredictionRecord
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		recs = append(recs, *rec)
	}

	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*contracts.PredictionRecord, error) {
	var p contracts.PredictionRecord
	picks := make([]int16, 5)
	var matchCount *int16
	var matchDetail []int16

	if err := row.Scan(
		&p.DrawDate, &p.Strategy,
		&picks[0], &picks[1], &picks[2], &picks[3], &picks[4],
		&p.Seed, &p.LowConfidence, &p.CreatedAt,
		&matchCount, &matchDetail,
		&p.Superseded, &p.SupersededReason,
	); err != nil {
		return nil, err
	}

	p.Picks = make([]int, 5)
	for i, n := range picks {
		p.Picks[i] = int(n)
	}
	if matchCount != nil {
		mc := int(*matchCount)
		p.MatchCount = &mc
		p.MatchDetail = make([]int, len(matchDetail))
		for i, n := range matchDetail {
			p.MatchDetail[i] = int(n)
		}
	}
	p.DrawDate = contracts.Midnight(p.DrawDate)

	return &p, nil
}

// isUniqueViolation reports whether err is a Postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
