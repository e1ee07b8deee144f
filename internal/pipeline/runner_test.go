package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/history"
	"github.com/wonny/fortuna/backend/internal/ingest"
	"github.com/wonny/fortuna/backend/internal/ledger"
	"github.com/wonny/fortuna/backend/internal/reconcile"
	"github.com/wonny/fortuna/backend/internal/strategy"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// fixedSource returns one canned draw.
type fixedSource struct {
	record *contracts.DrawRecord
}

func (s *fixedSource) FetchLatest(ctx context.Context) (*contracts.DrawRecord, error) {
	return s.record, nil
}

func newTestRunner(t *testing.T, hist *history.Store, led *ledger.Ledger, src contracts.ResultSource) *Runner {
	t.Helper()
	log := logger.NewNop()
	return NewRunner(
		strategy.NewEngine(log),
		hist,
		led,
		ingest.NewIngester(src, hist, log),
		reconcile.NewEngine(hist, led, log),
		log,
	)
}

func TestRun_FullCycle(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	draw, err := contracts.NewDrawRecord(date, []int{7, 12, 23, 31, 39})
	require.NoError(t, err)

	hist := history.NewStore()
	led := ledger.New()
	runner := newTestRunner(t, hist, led, &fixedSource{record: draw})

	result, err := runner.Run(ctx, RunConfig{Date: date})
	require.NoError(t, err)

	assert.Equal(t, []string{"predict", "ingest", "reconcile"}, result.CompletedPhases)
	assert.Equal(t, len(contracts.AllStrategies()), result.Predict.Created)
	assert.True(t, result.DrawAppended)
	require.Len(t, result.Scoring, len(contracts.AllStrategies()))
	for _, outcome := range result.Scoring {
		assert.Equal(t, contracts.ScoringScored, outcome.Status)
	}

	// Every prediction for the date is now scored.
	unscored, err := led.GetUnscored(ctx)
	require.NoError(t, err)
	assert.Empty(t, unscored)
}

func TestRun_RerunIsSteadyState(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	draw, err := contracts.NewDrawRecord(date, []int{7, 12, 23, 31, 39})
	require.NoError(t, err)

	hist := history.NewStore()
	led := ledger.New()
	runner := newTestRunner(t, hist, led, &fixedSource{record: draw})

	first, err := runner.Run(ctx, RunConfig{Date: date})
	require.NoError(t, err)
	require.Equal(t, len(contracts.AllStrategies()), first.Predict.Created)

	second, err := runner.Run(ctx, RunConfig{Date: date})
	require.NoError(t, err)

	assert.Zero(t, second.Predict.Created, "rerun must not create new predictions")
	assert.Equal(t, len(contracts.AllStrategies()), second.Predict.Existing)
	assert.False(t, second.DrawAppended)
	assert.Empty(t, second.Scoring, "nothing left unscored on rerun")

	preds, err := led.All(ctx)
	require.NoError(t, err)
	assert.Len(t, preds, len(contracts.AllStrategies()))
}

func TestRun_NoDrawPublishedDefersScoring(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	led := ledger.New()
	runner := newTestRunner(t, history.NewStore(), led, &fixedSource{})

	result, err := runner.Run(ctx, RunConfig{Date: date})
	require.NoError(t, err)

	assert.Nil(t, result.Draw)
	require.Len(t, result.Scoring, len(contracts.AllStrategies()))
	for _, outcome := range result.Scoring {
		assert.Equal(t, contracts.ScoringDeferred, outcome.Status)
	}

	unscored, err := led.GetUnscored(ctx)
	require.NoError(t, err)
	assert.Len(t, unscored, len(contracts.AllStrategies()), "deferred predictions stay unscored")
}

func TestPredict_ForceRequiresReason(t *testing.T) {
	runner := newTestRunner(t, history.NewStore(), ledger.New(), &fixedSource{})

	_, err := runner.Predict(context.Background(), RunConfig{
		Date:  time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		Force: true,
	})
	assert.Error(t, err)
}

func TestPredict_ForceOverwriteSupersedes(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	led := ledger.New()
	runner := newTestRunner(t, history.NewStore(), led, &fixedSource{})

	first, err := runner.Predict(ctx, RunConfig{Date: date})
	require.NoError(t, err)
	require.Equal(t, len(contracts.AllStrategies()), first.Created)

	second, err := runner.Predict(ctx, RunConfig{
		Date:        date,
		Force:       true,
		ForceReason: "operator rerun",
	})
	require.NoError(t, err)
	assert.Equal(t, len(contracts.AllStrategies()), second.Overwritten)

	// Superseded rows are retained for audit.
	all, err := led.AllIncludingSuperseded(ctx)
	require.NoError(t, err)
	superseded := 0
	for _, p := range all {
		if p.Superseded {
			superseded++
			assert.Equal(t, "operator rerun", p.SupersededReason)
		}
	}
	assert.Equal(t, len(contracts.AllStrategies()), superseded)
}
