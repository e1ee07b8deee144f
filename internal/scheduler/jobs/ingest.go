package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fortuna/backend/internal/pipeline"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// IngestJob pulls the published draw result after the daily draw.
type IngestJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewIngestJob creates the daily result ingestion job.
func NewIngestJob(runner *pipeline.Runner, cfg *config.Config, log *logger.Logger) *IngestJob {
	return &IngestJob{
		runner:   runner,
		schedule: cfg.Schedule.IngestCron,
		logger:   log,
	}
}

// Name returns the job name
func (j *IngestJob) Name() string {
	return "daily_ingest"
}

// Schedule returns the cron schedule
func (j *IngestJob) Schedule() string {
	return j.schedule
}

// Run fetches and records the latest draw. "Not published yet" is a clean
// finish; the scheduler's retry loop handles transient source failures.
func (j *IngestJob) Run(ctx context.Context) error {
	draw, appended, err := j.runner.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingest draw result: %w", err)
	}

	if draw == nil {
		j.logger.Info("No draw result published yet")
		return fmt.Errorf("draw result not published yet")
	}

	j.logger.WithFields(map[string]interface{}{
		"date":     draw.Key(),
		"numbers":  draw.Numbers,
		"source":   draw.Source,
		"appended": appended,
	}).Info("Scheduled ingestion completed")
	return nil
}
