package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// ledgerDump is the full-ledger read the export needs; both the in-memory
// ledger and the pg repository provide it.
type ledgerDump interface {
	AllIncludingSuperseded(ctx context.Context) ([]contracts.PredictionRecord, error)
}

// ExportJob writes the nightly spreadsheet snapshot after verification.
type ExportJob struct {
	history  contracts.HistoryStore
	ledger   ledgerDump
	store    contracts.SnapshotStore
	schedule string
	logger   *logger.Logger
}

// NewExportJob creates the nightly snapshot export job. The schedule is
// fixed relative to the verify job rather than configured separately.
func NewExportJob(history contracts.HistoryStore, ledger ledgerDump, store contracts.SnapshotStore, log *logger.Logger) *ExportJob {
	return &ExportJob{
		history:  history,
		ledger:   ledger,
		store:    store,
		schedule: "0 0 20 * * *", // 30 minutes after verification
		logger:   log,
	}
}

// Name returns the job name
func (j *ExportJob) Name() string {
	return "nightly_export"
}

// Schedule returns the cron schedule
func (j *ExportJob) Schedule() string {
	return j.schedule
}

// Run persists the full state, superseded ledger rows included.
func (j *ExportJob) Run(ctx context.Context) error {
	draws, err := j.history.All(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	preds, err := j.ledger.AllIncludingSuperseded(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	snap := &contracts.Snapshot{Draws: draws, Predictions: preds}
	if err := j.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"draws":       len(draws),
		"predictions": len(preds),
	}).Info("Scheduled export completed")
	return nil
}
