package strategy

import (
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Balanced mixes the two signals: three numbers from the hot pool, two from
// the cold pool. Pool overlap is possible when a number is both frequent
// over the year and absent recently; duplicates are replaced from the
// remaining numbers.
type Balanced struct{}

// NewBalanced creates the hot/cold mix strategy.
func NewBalanced() *Balanced {
	return &Balanced{}
}

func (s *Balanced) ID() contracts.StrategyID { return contracts.StrategyBalanced }

func (s *Balanced) MinHistory() int { return 10 }

func (s *Balanced) Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error) {
	hotPool := rankNumbers(weightedFrequency(history, asOf))[:hotPoolSize]
	coldPool := coldestNumbers(history)[:coldPoolSize]

	picked := make(map[int]bool, contracts.PickCount)
	picks := make([]int, 0, contracts.PickCount)

	add := func(n int) {
		if !picked[n] && len(picks) < contracts.PickCount {
			picked[n] = true
			picks = append(picks, n)
		}
	}

	for _, n := range sampleFrom(rng, hotPool, 3) {
		add(n)
	}
	for _, n := range sampleFrom(rng, coldPool, 2) {
		add(n)
	}

	// Fill any slots lost to hot/cold overlap from the full range.
	for _, i := range rng.Perm(contracts.MaxNumber) {
		if len(picks) == contracts.PickCount {
			break
		}
		add(i + contracts.MinNumber)
	}

	return picks, nil
}
