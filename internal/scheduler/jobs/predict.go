package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fortuna/backend/internal/pipeline"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// PredictJob generates the day's predictions before the draw closes.
// Runs at noon lottery time by default; the draw is at ~18:30.
type PredictJob struct {
	runner   *pipeline.Runner
	schedule string
	loc      *time.Location
	logger   *logger.Logger
}

// NewPredictJob creates the daily prediction job.
func NewPredictJob(runner *pipeline.Runner, cfg *config.Config, loc *time.Location, log *logger.Logger) *PredictJob {
	return &PredictJob{
		runner:   runner,
		schedule: cfg.Schedule.PredictCron,
		loc:      loc,
		logger:   log,
	}
}

// Name returns the job name
func (j *PredictJob) Name() string {
	return "daily_predict"
}

// Schedule returns the cron schedule
func (j *PredictJob) Schedule() string {
	return j.schedule
}

// Run generates predictions for today's draw. Reruns are harmless: existing
// keys are kept, never overwritten on the scheduled path.
func (j *PredictJob) Run(ctx context.Context) error {
	today := time.Now().In(j.loc)

	report, err := j.runner.Predict(ctx, pipeline.RunConfig{Date: today})
	if err != nil {
		return fmt.Errorf("predict for %s: %w", today.Format("2006-01-02"), err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":     today.Format("2006-01-02"),
		"created":  report.Created,
		"existing": report.Existing,
		"failed":   report.Failed,
	}).Info("Scheduled prediction completed")
	return nil
}
