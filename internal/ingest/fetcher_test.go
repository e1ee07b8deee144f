package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/httputil"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// newTestFetcher wires a Fetcher against test servers standing in for the
// three sources.
func newTestFetcher(t *testing.T, officialURL, usaURL, twURL string) *Fetcher {
	t.Helper()

	cfg := &config.Config{
		Lottery: config.LotteryConfig{
			OfficialURL:   officialURL,
			LotteryUSAURL: usaURL,
			TWLotteryURL:  twURL,
			FetchTimeout:  5 * time.Second,
			RateLimit:     100,
			RateWindow:    time.Second,
		},
		Schedule: config.ScheduleConfig{Timezone: "UTC"},
	}

	client := httputil.New(cfg, logger.NewNop()).DisableRetry()
	fetcher, err := NewFetcher(cfg, client, logger.NewNop())
	require.NoError(t, err)
	return fetcher
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFor_FirstSourceWins(t *testing.T) {
	official := serve(t, http.StatusOK, officialHTML)
	usa := serve(t, http.StatusOK, lotteryUSAHTML)
	tw := serve(t, http.StatusOK, twLotteryHTML)

	fetcher := newTestFetcher(t, official.URL, usa.URL, tw.URL)
	target := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	record, err := fetcher.FetchFor(context.Background(), target)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "official", record.Source)
	assert.Equal(t, []int{7, 12, 23, 31, 39}, record.Numbers)
	assert.False(t, record.FetchedAt.IsZero())
}

func TestFetchFor_FallsBackOnSourceFailure(t *testing.T) {
	official := serve(t, http.StatusServiceUnavailable, "maintenance")
	usa := serve(t, http.StatusOK, lotteryUSAHTML)
	tw := serve(t, http.StatusOK, twLotteryHTML)

	fetcher := newTestFetcher(t, official.URL, usa.URL, tw.URL)
	target := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	record, err := fetcher.FetchFor(context.Background(), target)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "lotteryusa", record.Source)
}

func TestFetchFor_NothingPublishedYet(t *testing.T) {
	// All sources answer but still show the previous draw.
	official := serve(t, http.StatusOK, officialHTML)
	usa := serve(t, http.StatusOK, lotteryUSAHTML)
	tw := serve(t, http.StatusOK, twLotteryHTML)

	fetcher := newTestFetcher(t, official.URL, usa.URL, tw.URL)
	target := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)

	record, err := fetcher.FetchFor(context.Background(), target)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFetchFor_AllSourcesDown(t *testing.T) {
	official := serve(t, http.StatusInternalServerError, "")
	usa := serve(t, http.StatusInternalServerError, "")
	tw := serve(t, http.StatusInternalServerError, "")

	fetcher := newTestFetcher(t, official.URL, usa.URL, tw.URL)
	target := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	_, err := fetcher.FetchFor(context.Background(), target)
	assert.Error(t, err)
}
