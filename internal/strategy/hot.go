package strategy

import (
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// hotPoolSize is how many of the top-weighted numbers form the hot pool.
const hotPoolSize = 10

// Hot favors the numbers with the highest time-decayed historical
// occurrence over the trailing window: frequency-weighted selection.
type Hot struct{}

// NewHot creates the frequency-weighted strategy.
func NewHot() *Hot {
	return &Hot{}
}

func (s *Hot) ID() contracts.StrategyID { return contracts.StrategyHot }

func (s *Hot) MinHistory() int { return 10 }

func (s *Hot) Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error) {
	ranked := rankNumbers(weightedFrequency(history, asOf))
	pool := ranked[:hotPoolSize]
	return sampleFrom(rng, pool, contracts.PickCount), nil
}
