package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// Engine joins unscored ledger rows against recorded draws and writes each
// match result exactly once.
// ⭐ SSOT: 채점 로직은 여기서만
type Engine struct {
	history contracts.HistoryStore
	ledger  contracts.PredictionLedger
	logger  *logger.Logger
}

// NewEngine creates a reconciliation engine over a history store and ledger.
func NewEngine(history contracts.HistoryStore, ledger contracts.PredictionLedger, log *logger.Logger) *Engine {
	return &Engine{
		history: history,
		ledger:  ledger,
		logger:  log.WithComponent("reconcile"),
	}
}

// Score computes the match between picked and drawn numbers: the count of
// common values and the common values themselves, ascending. Both inputs are
// validated ascending sets, so a single merge walk suffices.
func Score(picks, drawn []int) (int, []int) {
	detail := make([]int, 0, contracts.PickCount)
	i, j := 0, 0
	for i < len(picks) && j < len(drawn) {
		switch {
		case picks[i] == drawn[j]:
			detail = append(detail, picks[i])
			i++
			j++
		case picks[i] < drawn[j]:
			i++
		default:
			j++
		}
	}
	return len(detail), detail
}

// Reconcile scores every unscored live prediction that has a recorded draw
// for its date. Predictions whose draw has not been recorded yet are
// deferred, not failed; a row scored by a concurrent run is skipped. The
// pass is idempotent: rerunning changes nothing.
func (e *Engine) Reconcile(ctx context.Context) ([]contracts.ScoringOutcome, error) {
	unscored, err := e.ledger.GetUnscored(ctx)
	if err != nil {
		return nil, fmt.Errorf("load unscored predictions: %w", err)
	}

	outcomes := make([]contracts.ScoringOutcome, 0, len(unscored))
	counts := map[contracts.ScoringStatus]int{}

	for _, pred := range unscored {
		outcome, err := e.reconcileOne(ctx, pred)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, *outcome)
		counts[outcome.Status]++
	}

	e.logger.WithFields(map[string]interface{}{
		"candidates": len(unscored),
		"scored":     counts[contracts.ScoringScored],
		"deferred":   counts[contracts.ScoringDeferred],
		"skipped":    counts[contracts.ScoringSkipped],
	}).Info("reconciliation pass completed")

	return outcomes, nil
}

func (e *Engine) reconcileOne(ctx context.Context, pred contracts.PredictionRecord) (*contracts.ScoringOutcome, error) {
	outcome := &contracts.ScoringOutcome{
		DrawDate: pred.DrawDate,
		Strategy: pred.Strategy,
	}

	draw, err := e.history.Get(ctx, pred.DrawDate)
	if err != nil {
		return nil, fmt.Errorf("load draw for %s: %w", contracts.DateKey(pred.DrawDate), err)
	}
	if draw == nil {
		outcome.Status = contracts.ScoringDeferred
		return outcome, nil
	}

	count, detail := Score(pred.Picks, draw.Numbers)

	err = e.ledger.UpdateMatch(ctx, pred.DrawDate, pred.Strategy, count, detail)
	switch {
	case errors.Is(err, contracts.ErrAlreadyScored):
		// Another pass got there first; the stored score stands.
		outcome.Status = contracts.ScoringSkipped
		return outcome, nil
	case err != nil:
		return nil, fmt.Errorf("score %s: %w", pred.Key(), err)
	}

	outcome.Status = contracts.ScoringScored
	outcome.MatchCount = count
	outcome.MatchDetail = detail

	e.logger.WithFields(map[string]interface{}{
		"date":     contracts.DateKey(pred.DrawDate),
		"strategy": pred.Strategy,
		"matches":  count,
	}).Debug("prediction scored")

	return outcome, nil
}
