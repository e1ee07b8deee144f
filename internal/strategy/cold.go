package strategy

import (
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// coldPoolSize is how many of the longest-absent numbers form the cold pool.
const coldPoolSize = 10

// Cold is the contrarian signal: favor the numbers absent longest.
type Cold struct{}

// NewCold creates the recency-weighted strategy.
func NewCold() *Cold {
	return &Cold{}
}

func (s *Cold) ID() contracts.StrategyID { return contracts.StrategyCold }

func (s *Cold) MinHistory() int { return 10 }

func (s *Cold) Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error) {
	pool := coldestNumbers(history)[:coldPoolSize]
	return sampleFrom(rng, pool, contracts.PickCount), nil
}
