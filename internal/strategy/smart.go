package strategy

import (
	"math/rand"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// smartMaxAttempts bounds the rejection sampling loop.
const smartMaxAttempts = 5000

// Smart rejection-samples uniform candidates until one passes the
// historical pattern gates (odd/even split, sum band, consecutive pairs).
// If no candidate passes within the attempt budget the last candidate is
// returned as-is; a valid number set is always produced.
type Smart struct{}

// NewSmart creates the pattern-gated strategy.
func NewSmart() *Smart {
	return &Smart{}
}

func (s *Smart) ID() contracts.StrategyID { return contracts.StrategySmart }

func (s *Smart) MinHistory() int { return 30 }

func (s *Smart) Generate(history []contracts.DrawRecord, asOf time.Time, rng *rand.Rand) ([]int, error) {
	var picks []int
	for attempt := 0; attempt < smartMaxAttempts; attempt++ {
		picks = samplePicks(rng)
		if patternReasonable(picks) {
			return picks, nil
		}
	}
	return picks, nil
}
