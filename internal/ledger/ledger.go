package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Ledger is the in-memory Prediction Ledger: one live record per
// (draw_date, strategy_id), created exactly once, superseded only through
// the explicit ForceOverwrite path, never deleted.
// ⭐ SSOT: 메모리 내 예측 원장은 여기서만
type Ledger struct {
	mu   sync.RWMutex
	live map[string]int // Key() -> index into records, non-superseded only
	// records holds every row ever written, superseded ones included.
	records []contracts.PredictionRecord
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{live: make(map[string]int)}
}

// NewFrom creates a Ledger seeded with existing rows (e.g. from a loaded
// snapshot). Superseded rows are retained but not indexed as live.
func NewFrom(records []contracts.PredictionRecord) (*Ledger, error) {
	l := New()
	for _, rec := range records {
		if rec.Superseded {
			l.records = append(l.records, rec)
			continue
		}
		if _, exists := l.live[rec.Key()]; exists {
			return nil, fmt.Errorf("seed prediction %s: %w", rec.Key(), contracts.ErrAlreadyExists)
		}
		l.records = append(l.records, rec)
		l.live[rec.Key()] = len(l.records) - 1
	}
	return l, nil
}

// Create stores a new prediction. Idempotent-by-rejection: a second create
// for the same key is a no-op that surfaces ErrAlreadyExists.
func (l *Ledger) Create(ctx context.Context, pred contracts.PredictionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pred.DrawDate = contracts.Midnight(pred.DrawDate)
	key := pred.Key()
	if _, exists := l.live[key]; exists {
		return fmt.Errorf("prediction %s: %w", key, contracts.ErrAlreadyExists)
	}

	l.records = append(l.records, pred)
	l.live[key] = len(l.records) - 1
	return nil
}

// ForceOverwrite supersedes any live record for the key and stores pred in
// its place. The superseded row is retained with superseded=true and the
// given reason; its match fields, if any, are kept for audit.
func (l *Ledger) ForceOverwrite(ctx context.Context, pred contracts.PredictionRecord, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pred.DrawDate = contracts.Midnight(pred.DrawDate)
	key := pred.Key()
	if idx, exists := l.live[key]; exists {
		l.records[idx].Superseded = true
		l.records[idx].SupersededReason = reason
	}

	l.records = append(l.records, pred)
	l.live[key] = len(l.records) - 1
	return nil
}

// Get returns the live prediction for a key, or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, date time.Time, strategy contracts.StrategyID) (*contracts.PredictionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, exists := l.live[contracts.DateKey(date)+"/"+string(strategy)]
	if !exists {
		return nil, fmt.Errorf("prediction %s/%s: %w", contracts.DateKey(date), strategy, contracts.ErrNotFound)
	}

	rec := l.records[idx]
	return &rec, nil
}

// GetUnscored returns live predictions whose match fields are still nil,
// ascending by date then strategy.
func (l *Ledger) GetUnscored(ctx context.Context) ([]contracts.PredictionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []contracts.PredictionRecord
	for _, idx := range l.live {
		if !l.records[idx].Scored() {
			out = append(out, l.records[idx])
		}
	}

	sortRecords(out)
	return out, nil
}

// UpdateMatch writes the match fields of an unscored prediction, exactly
// once. The picks themselves are never touched.
func (l *Ledger) UpdateMatch(ctx context.Context, date time.Time, strategy contracts.StrategyID, matchCount int, matchDetail []int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := contracts.DateKey(date) + "/" + string(strategy)
	idx, exists := l.live[key]
	if !exists {
		return fmt.Errorf("prediction %s: %w", key, contracts.ErrNotFound)
	}
	if l.records[idx].Scored() {
		return fmt.Errorf("prediction %s: %w", key, contracts.ErrAlreadyScored)
	}

	detail := make([]int, len(matchDetail))
	copy(detail, matchDetail)
	sort.Ints(detail)

	l.records[idx].MatchCount = &matchCount
	l.records[idx].MatchDetail = detail
	return nil
}

// All returns every live prediction, ascending by date then strategy.
func (l *Ledger) All(ctx context.Context) ([]contracts.PredictionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]contracts.PredictionRecord, 0, len(l.live))
	for _, idx := range l.live {
		out = append(out, l.records[idx])
	}

	sortRecords(out)
	return out, nil
}

// AllIncludingSuperseded returns every row ever written, for snapshot
// persistence and audit.
func (l *Ledger) AllIncludingSuperseded(ctx context.Context) ([]contracts.PredictionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]contracts.PredictionRecord, len(l.records))
	copy(out, l.records)
	sortRecords(out)
	return out, nil
}

func sortRecords(recs []contracts.PredictionRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].DrawDate.Equal(recs[j].DrawDate) {
			return recs[i].DrawDate.Before(recs[j].DrawDate)
		}
		if recs[i].Strategy != recs[j].Strategy {
			return recs[i].Strategy < recs[j].Strategy
		}
		// superseded rows sort before their replacement
		return recs[i].Superseded && !recs[j].Superseded
	})
}
