package contracts

import (
	"fmt"
	"time"
)

// StrategyID identifies a registered prediction strategy.
// ⭐ SSOT: 전략 목록은 여기서만 정의 (fixed enumeration, extended here only)
type StrategyID string

const (
	StrategyRandom   StrategyID = "random"   // uniform baseline, no information content
	StrategyHot      StrategyID = "hot"      // time-decayed frequency weighting
	StrategyCold     StrategyID = "cold"     // longest-absent numbers
	StrategyBalanced StrategyID = "balanced" // hot/cold mix
	StrategySmart    StrategyID = "smart"    // pattern-gated sampling
)

// AllStrategies returns the fixed strategy enumeration in registration order.
func AllStrategies() []StrategyID {
	return []StrategyID{
		StrategyRandom,
		StrategyHot,
		StrategyCold,
		StrategyBalanced,
		StrategySmart,
	}
}

// Valid reports whether the ID is part of the enumeration.
func (s StrategyID) Valid() bool {
	switch s {
	case StrategyRandom, StrategyHot, StrategyCold, StrategyBalanced, StrategySmart:
		return true
	}
	return false
}

// PredictionRecord is one ledger row: the numbers one strategy picked for one
// draw date. (draw_date, strategy_id) is unique among non-superseded rows.
// Picks are immutable once written; only the match fields transition,
// exactly once, from nil to a computed value.
type PredictionRecord struct {
	DrawDate      time.Time  `json:"draw_date"`
	Strategy      StrategyID `json:"strategy_id"`
	Picks         []int      `json:"picked_numbers"` // ascending, validated
	Seed          int64      `json:"seed"`           // RNG seed, recorded for audit replay
	LowConfidence bool       `json:"low_confidence"` // true when history was too thin
	CreatedAt     time.Time  `json:"created_at"`

	// Match fields, nil until reconciled.
	MatchCount  *int  `json:"match_count,omitempty"`
	MatchDetail []int `json:"match_detail,omitempty"`

	// Superseded rows are retained, never deleted.
	Superseded       bool   `json:"superseded,omitempty"`
	SupersededReason string `json:"superseded_reason,omitempty"`
}

// NewPredictionRecord builds a validated, unscored PredictionRecord.
func NewPredictionRecord(date time.Time, strategy StrategyID, picks []int, seed int64) (*PredictionRecord, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	nums, err := NewNumberSet(picks)
	if err != nil {
		return nil, fmt.Errorf("invalid picks for %s/%s: %w", DateKey(date), strategy, err)
	}

	return &PredictionRecord{
		DrawDate:  Midnight(date),
		Strategy:  strategy,
		Picks:     nums,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Key returns the ledger uniqueness key.
func (p *PredictionRecord) Key() string {
	return DateKey(p.DrawDate) + "/" + string(p.Strategy)
}

// Scored reports whether the record has been reconciled.
func (p *PredictionRecord) Scored() bool {
	return p.MatchCount != nil
}

// ScoringStatus describes the outcome of reconciling one prediction.
type ScoringStatus string

const (
	ScoringScored   ScoringStatus = "scored"   // draw found, match fields written
	ScoringDeferred ScoringStatus = "deferred" // no draw for the date yet
	ScoringSkipped  ScoringStatus = "skipped"  // already scored by a concurrent run
)

// ScoringOutcome is the per-record result of a reconciliation pass.
type ScoringOutcome struct {
	DrawDate    time.Time     `json:"draw_date"`
	Strategy    StrategyID    `json:"strategy_id"`
	Status      ScoringStatus `json:"status"`
	MatchCount  int           `json:"match_count"`
	MatchDetail []int         `json:"match_detail,omitempty"`
}

// StrategyAccuracy is the derived per-strategy score aggregate. Computed at
// read time from scored records, never stored.
type StrategyAccuracy struct {
	Strategy     StrategyID  `json:"strategy_id"`
	ScoredCount  int         `json:"scored_count"`
	MeanMatches  float64     `json:"mean_matches"`
	BestMatches  int         `json:"best_matches"`
	Histogram    map[int]int `json:"histogram"` // match_count -> occurrences
	EdgeVsRandom float64     `json:"edge_vs_random"`
	EdgeVsChance float64     `json:"edge_vs_chance"`
}

// ChanceExpectation is the expected match count of an uninformed pick:
// PickCount * PickCount / MaxNumber (hypergeometric mean, 5*5/39).
func ChanceExpectation() float64 {
	return float64(PickCount) * float64(PickCount) / float64(MaxNumber)
}
