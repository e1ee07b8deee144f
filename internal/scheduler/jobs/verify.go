package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/pipeline"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// VerifyJob scores unscored predictions against recorded draws. Runs after
// the ingest job; anything the ingest missed stays deferred until the next
// pass.
type VerifyJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewVerifyJob creates the daily verification job.
func NewVerifyJob(runner *pipeline.Runner, cfg *config.Config, log *logger.Logger) *VerifyJob {
	return &VerifyJob{
		runner:   runner,
		schedule: cfg.Schedule.VerifyCron,
		logger:   log,
	}
}

// Name returns the job name
func (j *VerifyJob) Name() string {
	return "daily_verify"
}

// Schedule returns the cron schedule
func (j *VerifyJob) Schedule() string {
	return j.schedule
}

// Run reconciles the ledger against history.
func (j *VerifyJob) Run(ctx context.Context) error {
	outcomes, err := j.runner.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verify predictions: %w", err)
	}

	counts := map[contracts.ScoringStatus]int{}
	for _, o := range outcomes {
		counts[o.Status]++
	}

	j.logger.WithFields(map[string]interface{}{
		"scored":   counts[contracts.ScoringScored],
		"deferred": counts[contracts.ScoringDeferred],
		"skipped":  counts[contracts.ScoringSkipped],
	}).Info("Scheduled verification completed")
	return nil
}
