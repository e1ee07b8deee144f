package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Accuracy aggregates scored live predictions into one StrategyAccuracy per
// strategy, in registration order. windowDays limits the report to draw
// dates within the trailing window ending at asOf; zero means all time. The
// aggregate is derived at read time and never stored.
func (e *Engine) Accuracy(ctx context.Context, asOf time.Time, windowDays int) ([]contracts.StrategyAccuracy, error) {
	preds, err := e.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}

	var cutoff time.Time
	if windowDays > 0 {
		cutoff = contracts.Midnight(asOf).AddDate(0, 0, -windowDays)
	}

	type agg struct {
		count int
		sum   int
		best  int
		hist  map[int]int
	}
	byStrategy := make(map[contracts.StrategyID]*agg, len(contracts.AllStrategies()))
	for _, id := range contracts.AllStrategies() {
		byStrategy[id] = &agg{hist: make(map[int]int)}
	}

	for _, p := range preds {
		if !p.Scored() {
			continue
		}
		if windowDays > 0 && p.DrawDate.Before(cutoff) {
			continue
		}
		a, ok := byStrategy[p.Strategy]
		if !ok {
			continue
		}
		m := *p.MatchCount
		a.count++
		a.sum += m
		a.hist[m]++
		if m > a.best {
			a.best = m
		}
	}

	randomMean := 0.0
	if a := byStrategy[contracts.StrategyRandom]; a.count > 0 {
		randomMean = float64(a.sum) / float64(a.count)
	}

	report := make([]contracts.StrategyAccuracy, 0, len(contracts.AllStrategies()))
	for _, id := range contracts.AllStrategies() {
		a := byStrategy[id]
		acc := contracts.StrategyAccuracy{
			Strategy:    id,
			ScoredCount: a.count,
			BestMatches: a.best,
			Histogram:   a.hist,
		}
		if a.count > 0 {
			acc.MeanMatches = float64(a.sum) / float64(a.count)
			acc.EdgeVsRandom = acc.MeanMatches - randomMean
			acc.EdgeVsChance = acc.MeanMatches - contracts.ChanceExpectation()
		}
		report = append(report, acc)
	}

	return report, nil
}
