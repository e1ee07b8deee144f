package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

func mustPrediction(t *testing.T, date string, strategy contracts.StrategyID, picks []int) contracts.PredictionRecord {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	rec, err := contracts.NewPredictionRecord(d, strategy, picks, 1)
	require.NoError(t, err)
	return *rec
}

func TestLedger_CreateIsIdempotentByRejection(t *testing.T) {
	ctx := context.Background()
	l := New()

	first := mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{3, 7, 15, 22, 39})
	require.NoError(t, l.Create(ctx, first))

	// Second create for the same key: rejected, exactly one record stored.
	second := mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{1, 2, 3, 4, 5})
	err := l.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrAlreadyExists))

	got, err := l.Get(ctx, first.DrawDate, contracts.StrategyHot)
	require.NoError(t, err)
	assert.Equal(t, first.Picks, got.Picks)

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLedger_SameDateDifferentStrategies(t *testing.T) {
	ctx := context.Background()
	l := New()

	require.NoError(t, l.Create(ctx, mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{1, 2, 3, 4, 5})))
	require.NoError(t, l.Create(ctx, mustPrediction(t, "2026-08-20", contracts.StrategyCold, []int{6, 7, 8, 9, 10})))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLedger_UpdateMatchOnce(t *testing.T) {
	ctx := context.Background()
	l := New()

	pred := mustPrediction(t, "2026-08-20", contracts.StrategyRandom, []int{3, 7, 15, 22, 39})
	require.NoError(t, l.Create(ctx, pred))

	require.NoError(t, l.UpdateMatch(ctx, pred.DrawDate, pred.Strategy, 3, []int{39, 7, 22}))

	got, err := l.Get(ctx, pred.DrawDate, pred.Strategy)
	require.NoError(t, err)
	require.NotNil(t, got.MatchCount)
	assert.Equal(t, 3, *got.MatchCount)
	assert.Equal(t, []int{7, 22, 39}, got.MatchDetail) // stored sorted

	// A second update is rejected and the stored score is unchanged.
	err = l.UpdateMatch(ctx, pred.DrawDate, pred.Strategy, 5, []int{1, 2, 3, 4, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrAlreadyScored))

	got, err = l.Get(ctx, pred.DrawDate, pred.Strategy)
	require.NoError(t, err)
	assert.Equal(t, 3, *got.MatchCount)
	assert.Equal(t, []int{7, 22, 39}, got.MatchDetail)
}

func TestLedger_UpdateMatchMissingKey(t *testing.T) {
	ctx := context.Background()
	l := New()

	err := l.UpdateMatch(ctx, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), contracts.StrategyHot, 1, []int{5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestLedger_GetUnscored(t *testing.T) {
	ctx := context.Background()
	l := New()

	a := mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{1, 2, 3, 4, 5})
	b := mustPrediction(t, "2026-08-21", contracts.StrategyHot, []int{6, 7, 8, 9, 10})
	require.NoError(t, l.Create(ctx, a))
	require.NoError(t, l.Create(ctx, b))

	require.NoError(t, l.UpdateMatch(ctx, a.DrawDate, a.Strategy, 0, nil))

	unscored, err := l.GetUnscored(ctx)
	require.NoError(t, err)
	require.Len(t, unscored, 1)
	assert.Equal(t, "2026-08-21/hot", unscored[0].Key())
}

func TestLedger_ForceOverwriteRetainsSuperseded(t *testing.T) {
	ctx := context.Background()
	l := New()

	orig := mustPrediction(t, "2026-08-20", contracts.StrategySmart, []int{1, 2, 3, 4, 5})
	require.NoError(t, l.Create(ctx, orig))

	repl := mustPrediction(t, "2026-08-20", contracts.StrategySmart, []int{6, 7, 8, 9, 10})
	require.NoError(t, l.ForceOverwrite(ctx, repl, "manual correction after source fix"))

	// Live view: only the replacement.
	got, err := l.Get(ctx, repl.DrawDate, repl.Strategy)
	require.NoError(t, err)
	assert.Equal(t, repl.Picks, got.Picks)

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Audit view: the superseded row survives with the reason.
	full, err := l.AllIncludingSuperseded(ctx)
	require.NoError(t, err)
	require.Len(t, full, 2)
	assert.True(t, full[0].Superseded)
	assert.Equal(t, "manual correction after source fix", full[0].SupersededReason)
	assert.Equal(t, orig.Picks, full[0].Picks)
	assert.False(t, full[1].Superseded)
}

func TestNewFrom_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := New()

	require.NoError(t, l.Create(ctx, mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{1, 2, 3, 4, 5})))
	require.NoError(t, l.ForceOverwrite(ctx, mustPrediction(t, "2026-08-20", contracts.StrategyHot, []int{6, 7, 8, 9, 10}), "redo"))
	require.NoError(t, l.Create(ctx, mustPrediction(t, "2026-08-21", contracts.StrategyCold, []int{11, 12, 13, 14, 15})))

	rows, err := l.AllIncludingSuperseded(ctx)
	require.NoError(t, err)

	restored, err := NewFrom(rows)
	require.NoError(t, err)

	rows2, err := restored.AllIncludingSuperseded(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, rows2)

	live, err := restored.All(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 2)
}
