package contracts

import (
	"context"
	"time"
)

// HistoryStore is the append-only collection of past draw results.
// ⭐ SSOT: 저장소 계약은 여기서만 정의
type HistoryStore interface {
	// Append stores a new draw. Returns ErrDuplicateDate if the date is
	// already present; the existing record is never replaced.
	Append(ctx context.Context, draw DrawRecord) error

	// Get returns the draw for a date, or (nil, nil) when absent.
	Get(ctx context.Context, date time.Time) (*DrawRecord, error)

	// All returns every draw, ascending by date.
	All(ctx context.Context) ([]DrawRecord, error)

	// Latest returns the most recent draw, or (nil, nil) when empty.
	Latest(ctx context.Context) (*DrawRecord, error)
}

// PredictionLedger is the append-only prediction record store.
type PredictionLedger interface {
	// Create stores a new prediction. Returns ErrAlreadyExists if a live
	// (non-superseded) record already holds the (date, strategy) key.
	Create(ctx context.Context, pred PredictionRecord) error

	// ForceOverwrite supersedes the live record for the key (retaining it
	// with superseded=true and the given reason) and stores pred in its
	// place. The explicit audit path; callers must log it as a distinct
	// event.
	ForceOverwrite(ctx context.Context, pred PredictionRecord, reason string) error

	// Get returns the live prediction for a key, or ErrNotFound.
	Get(ctx context.Context, date time.Time, strategy StrategyID) (*PredictionRecord, error)

	// GetUnscored returns live predictions whose match fields are still
	// nil, ascending by date.
	GetUnscored(ctx context.Context) ([]PredictionRecord, error)

	// UpdateMatch writes the match fields of an unscored prediction.
	// Returns ErrNotFound for a missing key and ErrAlreadyScored when the
	// fields were already set; the stored score is never changed.
	UpdateMatch(ctx context.Context, date time.Time, strategy StrategyID, matchCount int, matchDetail []int) error

	// All returns every live prediction, ascending by date then strategy.
	All(ctx context.Context) ([]PredictionRecord, error)
}

// ResultSource fetches published draw results. A fetch or parse failure
// means "no new record available this run", never corruption of history.
type ResultSource interface {
	// FetchLatest returns the most recently published draw, or nil when
	// none is published yet.
	FetchLatest(ctx context.Context) (*DrawRecord, error)
}

// Snapshot is the full persisted state: all draws plus all ledger rows
// (superseded rows included).
type Snapshot struct {
	Draws       []DrawRecord
	Predictions []PredictionRecord
}

// SnapshotStore persists and restores a Snapshot as tabular files. The core
// operates against any implementation; a save failure leaves the previously
// persisted state untouched.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
