package strategy

import (
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Random is the uniform baseline: no information content, used to calibrate
// whether the informed strategies beat chance.
type Random struct{}

// NewRandom creates the baseline strategy.
func NewRandom() *Random {
	return &Random{}
}

func (s *Random) ID() contracts.StrategyID { return contracts.StrategyRandom }

func (s *Random) MinHistory() int { return 0 }

func (s *Random) Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error) {
	return samplePicks(rng), nil
}
