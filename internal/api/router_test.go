package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/internal/api/handlers"
	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/history"
	"github.com/wonny/fortuna/backend/internal/ledger"
	"github.com/wonny/fortuna/backend/internal/reconcile"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *history.Store, *ledger.Ledger) {
	t.Helper()
	log := logger.NewNop()
	hist := history.NewStore()
	led := ledger.New()
	handler := handlers.NewLotteryHandler(hist, led, reconcile.NewEngine(hist, led, log), log)
	return NewRouter(handler, log), hist, led
}

func seedDraw(t *testing.T, hist *history.Store, day int) {
	t.Helper()
	draw, err := contracts.NewDrawRecord(
		time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		[]int{day, 12, 23, 31, 39},
	)
	require.NoError(t, err)
	require.NoError(t, hist.Append(context.Background(), *draw))
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestGetDraws_NewestFirstWithLimit(t *testing.T) {
	router, hist, _ := newTestRouter(t)
	seedDraw(t, hist, 17)
	seedDraw(t, hist, 18)
	seedDraw(t, hist, 19)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/draws?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int                    `json:"count"`
		Draws []contracts.DrawRecord `json:"draws"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "2026-08-19", body.Draws[0].Key())
	assert.Equal(t, "2026-08-18", body.Draws[1].Key())
}

func TestGetLatestDraw_EmptyIs404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/draws/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPrediction(t *testing.T) {
	router, _, led := newTestRouter(t)

	pred, err := contracts.NewPredictionRecord(
		time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		contracts.StrategyHot,
		[]int{3, 7, 15, 22, 39},
		1,
	)
	require.NoError(t, err)
	require.NoError(t, led.Create(context.Background(), *pred))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/predictions/2026-08-18/hot", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got contracts.PredictionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []int{3, 7, 15, 22, 39}, got.Picks)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/predictions/2026-08-18/cold", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/predictions/2026-08-18/bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats?window=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		WindowDays        int                          `json:"window_days"`
		ChanceExpectation float64                      `json:"chance_expectation"`
		Strategies        []contracts.StrategyAccuracy `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.WindowDays)
	assert.InDelta(t, contracts.ChanceExpectation(), body.ChanceExpectation, 1e-9)
	assert.Len(t, body.Strategies, len(contracts.AllStrategies()))
}
