package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

func mustDraw(t *testing.T, date string, numbers []int) contracts.DrawRecord {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	rec, err := contracts.NewDrawRecord(d, numbers)
	require.NoError(t, err)
	return *rec
}

func TestStore_AppendRejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first := mustDraw(t, "2026-08-20", []int{7, 22, 39, 15, 1})
	require.NoError(t, store.Append(ctx, first))

	// Second append for the same date fails and leaves the original intact,
	// even with different numbers.
	second := mustDraw(t, "2026-08-20", []int{2, 4, 6, 8, 10})
	err := store.Append(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrDuplicateDate))

	got, err := store.Get(ctx, first.DrawDate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.Numbers, got.Numbers)
	assert.Equal(t, 1, store.Len())
}

func TestStore_AllAscendingByDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	// Appended out of order
	require.NoError(t, store.Append(ctx, mustDraw(t, "2026-08-22", []int{1, 2, 3, 4, 5})))
	require.NoError(t, store.Append(ctx, mustDraw(t, "2026-08-20", []int{6, 7, 8, 9, 10})))
	require.NoError(t, store.Append(ctx, mustDraw(t, "2026-08-21", []int{11, 12, 13, 14, 15})))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-08-20", all[0].Key())
	assert.Equal(t, "2026-08-21", all[1].Key())
	assert.Equal(t, "2026-08-22", all[2].Key())

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-08-22", latest.Key())
}

func TestStore_GetAbsentIsNil(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	got, err := store.Get(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, got)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestNewStoreFrom_RejectsDuplicates(t *testing.T) {
	draws := []contracts.DrawRecord{
		mustDraw(t, "2026-08-20", []int{1, 2, 3, 4, 5}),
		mustDraw(t, "2026-08-20", []int{6, 7, 8, 9, 10}),
	}

	_, err := NewStoreFrom(draws)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrDuplicateDate))
}
