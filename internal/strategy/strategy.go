package strategy

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// Strategy turns historical draw data into a candidate number set.
// Generate must be pure given (history, asOf, rng): all randomness goes
// through rng so a rerun with the recorded seed reproduces the picks.
// ⭐ SSOT: 전략 인터페이스는 여기서만 정의
type Strategy interface {
	// ID returns the registry identifier.
	ID() contracts.StrategyID

	// MinHistory returns the number of past draws the strategy needs to
	// produce an informed pick. Below it the engine falls back to the
	// uniform baseline and flags the record low-confidence.
	MinHistory() int

	// Generate produces PickCount numbers from history as of a date.
	Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error)
}

// Result is the per-strategy outcome of an engine run. Either Record or Err
// is set; one strategy failing never blocks the others.
type Result struct {
	Strategy contracts.StrategyID
	Record   *contracts.PredictionRecord
	Err      error
}

// Engine holds the fixed strategy registry.
// ⭐ SSOT: 전략 실행 오케스트레이션은 여기서만
type Engine struct {
	strategies []Strategy
	logger     *logger.Logger
}

// NewEngine creates an Engine with the full strategy enumeration registered
// in order.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		strategies: []Strategy{
			NewRandom(),
			NewHot(),
			NewCold(),
			NewBalanced(),
			NewSmart(),
		},
		logger: log.WithComponent("strategy.engine"),
	}
}

// Strategies returns the registered strategies in registration order.
func (e *Engine) Strategies() []Strategy {
	return e.strategies
}

// SeedFor derives the default RNG seed for a (date, strategy) pair, so an
// unattended rerun for the same day regenerates identical picks. The seed is
// still recorded on every record; audit replay never depends on this
// derivation.
func SeedFor(date time.Time, id contracts.StrategyID) int64 {
	h := fnv.New64a()
	h.Write([]byte(contracts.DateKey(date)))
	h.Write([]byte{'/'})
	h.Write([]byte(id))
	return int64(h.Sum64())
}

// RunAll invokes every registered strategy once for the given date and
// returns one Result per strategy. Strategies with insufficient history fall
// back to uniform-random picks flagged low-confidence; a strategy error is
// reported in its Result, not fatal to the batch.
func (e *Engine) RunAll(ctx context.Context, history []contracts.DrawRecord, asOf time.Time) []Result {
	results := make([]Result, 0, len(e.strategies))

	for _, s := range e.strategies {
		select {
		case <-ctx.Done():
			results = append(results, Result{Strategy: s.ID(), Err: ctx.Err()})
			continue
		default:
		}

		results = append(results, e.runOne(s, history, asOf))
	}

	ok := 0
	for _, r := range results {
		if r.Err == nil {
			ok++
		}
	}
	e.logger.WithFields(map[string]interface{}{
		"date":       contracts.DateKey(asOf),
		"strategies": len(results),
		"generated":  ok,
	}).Info("strategy batch completed")

	return results
}

func (e *Engine) runOne(s Strategy, history []contracts.DrawRecord, asOf time.Time) Result {
	seed := SeedFor(asOf, s.ID())
	rng := rand.New(rand.NewSource(seed))

	lowConfidence := len(history) < s.MinHistory()

	var picks []int
	var err error
	if lowConfidence {
		// Not enough signal for an informed pick: uniform fallback.
		picks = samplePicks(rng)
		e.logger.WithFields(map[string]interface{}{
			"strategy": s.ID(),
			"history":  len(history),
			"required": s.MinHistory(),
		}).Warn("insufficient history, falling back to uniform picks")
	} else {
		picks, err = s.Generate(history, asOf, rng)
		if err != nil {
			e.logger.WithError(err).WithField("strategy", s.ID()).Error("strategy failed")
			return Result{Strategy: s.ID(), Err: fmt.Errorf("strategy %s: %w", s.ID(), err)}
		}
	}

	rec, err := contracts.NewPredictionRecord(asOf, s.ID(), picks, seed)
	if err != nil {
		return Result{Strategy: s.ID(), Err: fmt.Errorf("strategy %s: %w", s.ID(), err)}
	}
	rec.LowConfidence = lowConfidence

	return Result{Strategy: s.ID(), Record: rec}
}

// samplePicks draws PickCount distinct numbers uniformly.
func samplePicks(rng *rand.Rand) []int {
	perm := rng.Perm(contracts.MaxNumber)
	picks := make([]int, contracts.PickCount)
	for i := 0; i < contracts.PickCount; i++ {
		picks[i] = perm[i] + contracts.MinNumber
	}
	return picks
}

// sampleFrom draws n distinct values from pool (which must hold distinct
// values) using rng.
func sampleFrom(rng *rand.Rand, pool []int, n int) []int {
	idx := rng.Perm(len(pool))
	out := make([]int, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
