package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/ingest"
	"github.com/wonny/fortuna/backend/internal/reconcile"
	"github.com/wonny/fortuna/backend/internal/strategy"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// Runner coordinates the daily cycle: predict → ingest → reconcile.
// ⭐ SSOT: 일일 사이클 조율은 여기서만
type Runner struct {
	engine     *strategy.Engine
	history    contracts.HistoryStore
	ledger     contracts.PredictionLedger
	ingester   *ingest.Ingester
	reconciler *reconcile.Engine
	logger     *logger.Logger
}

// RunConfig holds configuration for one cycle run.
type RunConfig struct {
	Date        time.Time
	Force       bool   // overwrite existing predictions for the date
	ForceReason string // audit reason, required when Force is set
}

// PredictReport summarizes the prediction phase.
type PredictReport struct {
	Created     int
	Existing    int // key already held, left untouched
	Overwritten int
	Failed      int
	Records     []contracts.PredictionRecord
}

// RunResult holds the per-phase outcomes of a complete cycle.
type RunResult struct {
	Date            time.Time
	CompletedPhases []string
	Predict         *PredictReport
	Draw            *contracts.DrawRecord
	DrawAppended    bool
	Scoring         []contracts.ScoringOutcome
	Duration        time.Duration
	Error           error
}

// NewRunner wires the cycle phases together.
func NewRunner(
	engine *strategy.Engine,
	history contracts.HistoryStore,
	ledger contracts.PredictionLedger,
	ingester *ingest.Ingester,
	reconciler *reconcile.Engine,
	log *logger.Logger,
) *Runner {
	return &Runner{
		engine:     engine,
		history:    history,
		ledger:     ledger,
		ingester:   ingester,
		reconciler: reconciler,
		logger:     log.WithComponent("pipeline"),
	}
}

// Run executes the full cycle. Each phase either completes or fails the
// run; a phase finding nothing to do (result not published, nothing
// unscored) completes cleanly.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		Date:            contracts.Midnight(cfg.Date),
		CompletedPhases: make([]string, 0, 3),
	}

	r.logger.WithFields(map[string]interface{}{
		"date":  contracts.DateKey(cfg.Date),
		"force": cfg.Force,
	}).Info("starting daily cycle")

	report, err := r.Predict(ctx, cfg)
	if err != nil {
		result.Error = fmt.Errorf("predict failed: %w", err)
		return result, result.Error
	}
	result.Predict = report
	result.CompletedPhases = append(result.CompletedPhases, "predict")

	draw, appended, err := r.Ingest(ctx)
	if err != nil {
		result.Error = fmt.Errorf("ingest failed: %w", err)
		return result, result.Error
	}
	result.Draw = draw
	result.DrawAppended = appended
	result.CompletedPhases = append(result.CompletedPhases, "ingest")

	outcomes, err := r.Verify(ctx)
	if err != nil {
		result.Error = fmt.Errorf("reconcile failed: %w", err)
		return result, result.Error
	}
	result.Scoring = outcomes
	result.CompletedPhases = append(result.CompletedPhases, "reconcile")

	result.Duration = time.Since(startTime)
	r.logger.WithFields(map[string]interface{}{
		"date":     contracts.DateKey(cfg.Date),
		"duration": result.Duration,
		"phases":   result.CompletedPhases,
	}).Info("daily cycle completed")

	return result, nil
}

// Ingest fetches the latest published draw and records it.
func (r *Runner) Ingest(ctx context.Context) (*contracts.DrawRecord, bool, error) {
	return r.ingester.Run(ctx)
}

// Verify scores all unscored predictions with a recorded draw.
func (r *Runner) Verify(ctx context.Context) ([]contracts.ScoringOutcome, error) {
	return r.reconciler.Reconcile(ctx)
}

// Accuracy reports per-strategy accuracy over a trailing day window.
func (r *Runner) Accuracy(ctx context.Context, asOf time.Time, windowDays int) ([]contracts.StrategyAccuracy, error) {
	return r.reconciler.Accuracy(ctx, asOf, windowDays)
}

// Predict generates one prediction per strategy for the date and records
// them. An existing (date, strategy) key is left untouched unless Force is
// set, in which case the old record is superseded with the audit reason.
func (r *Runner) Predict(ctx context.Context, cfg RunConfig) (*PredictReport, error) {
	if cfg.Force && cfg.ForceReason == "" {
		return nil, fmt.Errorf("force overwrite requires a reason")
	}

	history, err := r.history.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	report := &PredictReport{}
	for _, res := range r.engine.RunAll(ctx, history, cfg.Date) {
		if res.Err != nil {
			report.Failed++
			continue
		}

		err := r.ledger.Create(ctx, *res.Record)
		switch {
		case err == nil:
			report.Created++
			report.Records = append(report.Records, *res.Record)

		case errors.Is(err, contracts.ErrAlreadyExists) && cfg.Force:
			if err := r.ledger.ForceOverwrite(ctx, *res.Record, cfg.ForceReason); err != nil {
				return report, fmt.Errorf("overwrite %s: %w", res.Record.Key(), err)
			}
			// Overwrites are rare and always operator-driven; log loudly.
			r.logger.WithFields(map[string]interface{}{
				"key":    res.Record.Key(),
				"reason": cfg.ForceReason,
			}).Warn("prediction overwritten")
			report.Overwritten++
			report.Records = append(report.Records, *res.Record)

		case errors.Is(err, contracts.ErrAlreadyExists):
			// Steady state on rerun: keep the first write.
			r.logger.WithField("key", res.Record.Key()).Debug("prediction already recorded")
			report.Existing++

		default:
			return report, fmt.Errorf("record %s: %w", res.Record.Key(), err)
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"date":        contracts.DateKey(cfg.Date),
		"created":     report.Created,
		"existing":    report.Existing,
		"overwritten": report.Overwritten,
		"failed":      report.Failed,
	}).Info("prediction phase completed")

	return report, nil
}
