package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// Ingester moves one fetched draw into the history store. A fetched draw
// either lands as exactly one append or, when the date is already recorded,
// leaves history untouched.
type Ingester struct {
	source  contracts.ResultSource
	history contracts.HistoryStore
	logger  *logger.Logger
}

// NewIngester wires a result source to a history store.
func NewIngester(src contracts.ResultSource, history contracts.HistoryStore, log *logger.Logger) *Ingester {
	return &Ingester{
		source:  src,
		history: history,
		logger:  log.WithComponent("ingest"),
	}
}

// Run fetches the latest published draw and appends it. Returns the draw
// and whether it was newly appended; (nil, false, nil) means nothing is
// published yet. An already-recorded date is a clean no-op, the stored draw
// is never replaced.
func (i *Ingester) Run(ctx context.Context) (*contracts.DrawRecord, bool, error) {
	draw, err := i.source.FetchLatest(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch draw result: %w", err)
	}
	if draw == nil {
		i.logger.Debug("no draw result published yet")
		return nil, false, nil
	}

	if err := i.history.Append(ctx, *draw); err != nil {
		if errors.Is(err, contracts.ErrDuplicateDate) {
			i.logger.WithField("date", draw.Key()).Debug("draw already recorded")
			return draw, false, nil
		}
		return nil, false, fmt.Errorf("append draw %s: %w", draw.Key(), err)
	}

	i.logger.WithFields(map[string]interface{}{
		"date":    draw.Key(),
		"numbers": draw.Numbers,
		"source":  draw.Source,
	}).Info("draw recorded")
	return draw, true, nil
}
