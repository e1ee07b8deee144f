package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/history"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// stubSource is a canned ResultSource.
type stubSource struct {
	record *contracts.DrawRecord
	err    error
}

func (s *stubSource) FetchLatest(ctx context.Context) (*contracts.DrawRecord, error) {
	return s.record, s.err
}

func testDraw(t *testing.T) *contracts.DrawRecord {
	t.Helper()
	record, err := contracts.NewDrawRecord(
		time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		[]int{7, 12, 23, 31, 39},
	)
	require.NoError(t, err)
	record.Source = "official"
	return record
}

func TestIngester_AppendsNewDraw(t *testing.T) {
	ctx := context.Background()
	hist := history.NewStore()
	ing := NewIngester(&stubSource{record: testDraw(t)}, hist, logger.NewNop())

	draw, appended, err := ing.Run(ctx)
	require.NoError(t, err)
	assert.True(t, appended)
	require.NotNil(t, draw)

	stored, err := hist.Get(ctx, draw.DrawDate)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, draw.Numbers, stored.Numbers)
}

func TestIngester_DuplicateDateIsNoOp(t *testing.T) {
	ctx := context.Background()
	hist := history.NewStore()
	require.NoError(t, hist.Append(ctx, *testDraw(t)))

	ing := NewIngester(&stubSource{record: testDraw(t)}, hist, logger.NewNop())

	draw, appended, err := ing.Run(ctx)
	require.NoError(t, err, "an already-recorded date must not surface as a failure")
	assert.False(t, appended)
	assert.NotNil(t, draw)

	all, err := hist.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIngester_NothingPublished(t *testing.T) {
	ing := NewIngester(&stubSource{}, history.NewStore(), logger.NewNop())

	draw, appended, err := ing.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, appended)
	assert.Nil(t, draw)
}

func TestIngester_FetchFailurePropagates(t *testing.T) {
	hist := history.NewStore()
	ing := NewIngester(&stubSource{err: errors.New("all sources failed")}, hist, logger.NewNop())

	_, _, err := ing.Run(context.Background())
	assert.Error(t, err)

	all, histErr := hist.All(context.Background())
	require.NoError(t, histErr)
	assert.Empty(t, all, "a failed fetch must leave history untouched")
}
