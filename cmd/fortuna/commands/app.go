package commands

import (
	"fmt"
	"time"

	"github.com/wonny/fortuna/backend/internal/history"
	"github.com/wonny/fortuna/backend/internal/ingest"
	"github.com/wonny/fortuna/backend/internal/ledger"
	"github.com/wonny/fortuna/backend/internal/pipeline"
	"github.com/wonny/fortuna/backend/internal/reconcile"
	"github.com/wonny/fortuna/backend/internal/store"
	"github.com/wonny/fortuna/backend/internal/strategy"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/database"
	"github.com/wonny/fortuna/backend/pkg/httputil"
	"github.com/wonny/fortuna/backend/pkg/logger"
	"github.com/wonny/fortuna/backend/pkg/redis"
)

// app holds the wired components every command works from. One bootstrap
// path keeps the dependency graph in a single place.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	loc *time.Location

	history    *history.Repository
	ledger     *ledger.Repository
	fetcher    *ingest.Fetcher
	runner     *pipeline.Runner
	reconciler *reconcile.Engine
	snapshots  *store.XLSXStore
}

// newApp loads config and wires the full component graph.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	httpClient := httputil.New(cfg, log)

	// Shared crawl budget across hosts, when Redis is configured.
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		httpClient.WithRateLimiter(
			redis.NewRateLimiter(redisClient, "fortuna:crawl"),
			redis.RateLimitConfig{
				Key:    "sources",
				Limit:  cfg.Lottery.RateLimit,
				Window: cfg.Lottery.RateWindow,
			},
		)
	}

	fetcher, err := ingest.NewFetcher(cfg, httpClient, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	historyRepo := history.NewRepository(db.Pool)
	ledgerRepo := ledger.NewRepository(db.Pool)
	reconciler := reconcile.NewEngine(historyRepo, ledgerRepo, log)

	runner := pipeline.NewRunner(
		strategy.NewEngine(log),
		historyRepo,
		ledgerRepo,
		ingest.NewIngester(fetcher, historyRepo, log),
		reconciler,
		log,
	)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		loc:        loc,
		history:    historyRepo,
		ledger:     ledgerRepo,
		fetcher:    fetcher,
		runner:     runner,
		reconciler: reconciler,
		snapshots:  store.NewXLSXStore(cfg, log),
	}, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	a.db.Close()
}

// today returns the current draw date in the lottery's timezone.
func (a *app) today() time.Time {
	return time.Now().In(a.loc)
}

// parseDateFlag resolves an optional --date flag against today.
func (a *app) parseDateFlag(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return a.today(), nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", dateStr)
	}
	return date, nil
}
