package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

func newTestStore(t *testing.T) *XLSXStore {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Export: config.ExportConfig{
			HistoryPath: filepath.Join(dir, "lottery_hist.xlsx"),
			LedgerPath:  filepath.Join(dir, "prediction_log.xlsx"),
		},
	}
	return NewXLSXStore(cfg, logger.NewNop())
}

func TestXLSXStore_EmptyOnFirstLoad(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Draws)
	assert.Empty(t, snap.Predictions)
}

func TestXLSXStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 18, 12, 0, 3, 0, time.UTC)
	fetched := time.Date(2026, 8, 19, 2, 30, 0, 0, time.UTC)

	draw, err := contracts.NewDrawRecord(date, []int{7, 12, 23, 31, 39})
	require.NoError(t, err)
	draw.Source = "official"
	draw.FetchedAt = fetched

	matchCount := 2
	scored := contracts.PredictionRecord{
		DrawDate:    date,
		Strategy:    contracts.StrategyHot,
		Picks:       []int{3, 7, 15, 23, 36},
		Seed:        -7041776481399722023,
		CreatedAt:   created,
		MatchCount:  &matchCount,
		MatchDetail: []int{7, 23},
	}
	unscored := contracts.PredictionRecord{
		DrawDate:      date,
		Strategy:      contracts.StrategySmart,
		Picks:         []int{4, 11, 19, 27, 38},
		Seed:          42,
		LowConfidence: true,
		CreatedAt:     created,
	}
	superseded := contracts.PredictionRecord{
		DrawDate:         date,
		Strategy:         contracts.StrategyHot,
		Picks:            []int{1, 2, 13, 24, 35},
		Seed:             7,
		CreatedAt:        created.Add(-time.Hour),
		Superseded:       true,
		SupersededReason: "rerun after source correction",
	}

	in := &contracts.Snapshot{
		Draws:       []contracts.DrawRecord{*draw},
		Predictions: []contracts.PredictionRecord{scored, unscored, superseded},
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, out.Draws, 1)
	assert.Equal(t, *draw, out.Draws[0])

	require.Len(t, out.Predictions, 3)
	assert.Equal(t, scored, out.Predictions[0])
	assert.Equal(t, unscored, out.Predictions[1])
	assert.Equal(t, superseded, out.Predictions[2])
}

func TestXLSXStore_ZeroMatchCountSurvives(t *testing.T) {
	// A scored miss (0 matches) must stay distinguishable from unscored.
	ctx := context.Background()
	store := newTestStore(t)

	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	zero := 0
	pred := contracts.PredictionRecord{
		DrawDate:    date,
		Strategy:    contracts.StrategyRandom,
		Picks:       []int{1, 2, 3, 4, 5},
		Seed:        1,
		CreatedAt:   time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC),
		MatchCount:  &zero,
		MatchDetail: []int{},
	}

	require.NoError(t, store.Save(ctx, &contracts.Snapshot{
		Predictions: []contracts.PredictionRecord{pred},
	}))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Predictions, 1)
	require.True(t, out.Predictions[0].Scored())
	assert.Equal(t, 0, *out.Predictions[0].MatchCount)
	assert.Empty(t, out.Predictions[0].MatchDetail)
}

func TestXLSXStore_OverwriteReplacesState(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	d1, err := contracts.NewDrawRecord(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), []int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	d2, err := contracts.NewDrawRecord(time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), []int{6, 7, 8, 9, 10})
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, &contracts.Snapshot{Draws: []contracts.DrawRecord{*d1}}))
	require.NoError(t, store.Save(ctx, &contracts.Snapshot{Draws: []contracts.DrawRecord{*d1, *d2}}))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Draws, 2)
}
