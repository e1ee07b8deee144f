package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/httputil"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// fetchHeaders makes the crawl look like an ordinary browser; the official
// site serves a bot-detection page to default Go user agents.
var fetchHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Accept":     "text/html,application/xhtml+xml",
}

type source struct {
	name  string
	url   string
	parse parseFunc
}

// Fetcher pulls the day's draw from the first source that has it published.
// Source order is fixed: the official site first, mirrors after.
// ⭐ SSOT: 개표 결과 크롤링은 여기서만
type Fetcher struct {
	client  *httputil.Client
	logger  *logger.Logger
	sources []source
	loc     *time.Location
	now     func() time.Time
}

// NewFetcher builds a Fetcher from config. The draw date is computed in the
// lottery's home timezone, not the host's.
func NewFetcher(cfg *config.Config, client *httputil.Client, log *logger.Logger) (*Fetcher, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	return &Fetcher{
		client: client,
		logger: log.WithComponent("ingest.fetcher"),
		sources: []source{
			{name: "official", url: cfg.Lottery.OfficialURL, parse: parseOfficial},
			{name: "lotteryusa", url: cfg.Lottery.LotteryUSAURL, parse: parseLotteryUSA},
			{name: "twlottery", url: cfg.Lottery.TWLotteryURL, parse: parseTWLottery},
		},
		loc: loc,
		now: time.Now,
	}, nil
}

// FetchLatest returns today's draw (today in the lottery's timezone), or
// (nil, nil) when no source has published it yet. A source that fails or
// has nothing is skipped; the error return is reserved for all sources
// failing outright.
func (f *Fetcher) FetchLatest(ctx context.Context) (*contracts.DrawRecord, error) {
	target := contracts.Midnight(f.now().In(f.loc))
	return f.FetchFor(ctx, target)
}

// FetchFor returns the draw for a specific date using the source fallback
// chain.
func (f *Fetcher) FetchFor(ctx context.Context, target time.Time) (*contracts.DrawRecord, error) {
	var lastErr error
	awaiting := false

	for _, src := range f.sources {
		record, err := f.fetchOne(ctx, src, target)
		switch {
		case err == nil:
			record.Source = src.name
			record.FetchedAt = f.now().UTC()
			f.logger.WithFields(map[string]interface{}{
				"source":  src.name,
				"date":    contracts.DateKey(target),
				"numbers": record.Numbers,
			}).Info("draw result fetched")
			return record, nil

		case errors.Is(err, ErrNoResult):
			awaiting = true // source reachable, result just not up yet
			f.logger.WithFields(map[string]interface{}{
				"source": src.name,
				"date":   contracts.DateKey(target),
			}).Debug("source has no result for date yet")

		case ctx.Err() != nil:
			return nil, err

		default:
			lastErr = err
			f.logger.WithError(err).WithField("source", src.name).Warn("source failed, trying next")
		}
	}

	if awaiting || lastErr == nil {
		// At least one source answered cleanly: the result simply is not
		// published yet. Not an error.
		return nil, nil
	}
	return nil, fmt.Errorf("all sources failed: %w", lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, src source, target time.Time) (*contracts.DrawRecord, error) {
	resp, err := f.client.Get(ctx, src.url, fetchHeaders)
	if err != nil {
		return nil, &FetchError{Source: src.name, URL: src.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Source: src.name,
			URL:    src.url,
			Err:    fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Source: src.name, Err: err}
	}

	record, err := src.parse(doc, target)
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			return nil, err
		}
		return nil, &ParseError{Source: src.name, Err: err}
	}
	return record, nil
}
