package strategy

import (
	"sort"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Historical weighting parameters, carried over from the spreadsheet-era
// analysis: recent draws count more, and draws older than a year are
// ignored entirely.
const (
	decayFactor  = 0.95
	trailingDays = 365
)

// weightedFrequency computes a time-decayed occurrence weight per number
// over the trailing window ending at asOf. The most recent draw has weight
// 1, the one before decayFactor, and so on.
func weightedFrequency(history []contracts.DrawRecord, asOf time.Time) map[int]float64 {
	cutoff := contracts.Midnight(asOf).AddDate(0, 0, -trailingDays)

	var window []contracts.DrawRecord
	for _, d := range history {
		if !d.DrawDate.Before(cutoff) && d.DrawDate.Before(contracts.Midnight(asOf).AddDate(0, 0, 1)) {
			window = append(window, d)
		}
	}

	weights := make(map[int]float64)
	// history is ascending; the last window entry is the freshest.
	for i, d := range window {
		age := len(window) - 1 - i
		w := 1.0
		for k := 0; k < age; k++ {
			w *= decayFactor
		}
		for _, n := range d.Numbers {
			weights[n] += w
		}
	}

	return weights
}

// rankNumbers returns all playable numbers ordered by descending weight;
// numbers with equal weight (including zero) order ascending for
// determinism.
func rankNumbers(weights map[int]float64) []int {
	nums := make([]int, 0, contracts.MaxNumber)
	for n := contracts.MinNumber; n <= contracts.MaxNumber; n++ {
		nums = append(nums, n)
	}

	sort.SliceStable(nums, func(i, j int) bool {
		wi, wj := weights[nums[i]], weights[nums[j]]
		if wi != wj {
			return wi > wj
		}
		return nums[i] < nums[j]
	})

	return nums
}

// lastSeen maps each number to the date it last appeared; numbers that
// never appeared are absent from the map.
func lastSeen(history []contracts.DrawRecord) map[int]time.Time {
	seen := make(map[int]time.Time)
	for _, d := range history {
		for _, n := range d.Numbers {
			if t, ok := seen[n]; !ok || d.DrawDate.After(t) {
				seen[n] = d.DrawDate
			}
		}
	}
	return seen
}

// coldestNumbers returns all playable numbers ordered by how long they have
// been absent, longest first. Never-drawn numbers rank coldest of all.
func coldestNumbers(history []contracts.DrawRecord) []int {
	seen := lastSeen(history)

	nums := make([]int, 0, contracts.MaxNumber)
	for n := contracts.MinNumber; n <= contracts.MaxNumber; n++ {
		nums = append(nums, n)
	}

	sort.SliceStable(nums, func(i, j int) bool {
		ti, iOK := seen[nums[i]]
		tj, jOK := seen[nums[j]]
		if iOK != jOK {
			return !iOK // never drawn sorts first
		}
		if iOK && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return nums[i] < nums[j]
	})

	return nums
}

// Pattern gates for the smart strategy, from the historical pattern study:
// winning sets overwhelmingly show a 2:3 or 3:2 odd/even split, a sum in
// the mid band, and at most one consecutive pair.
const (
	smartSumMin = 86
	smartSumMax = 118
)

// oddEvenOK reports whether the odd count is 2 or 3.
func oddEvenOK(picks []int) bool {
	odd := 0
	for _, n := range picks {
		if n%2 == 1 {
			odd++
		}
	}
	return odd == 2 || odd == 3
}

// sumOK reports whether the pick sum falls in the common band.
func sumOK(picks []int) bool {
	sum := 0
	for _, n := range picks {
		sum += n
	}
	return sum >= smartSumMin && sum <= smartSumMax
}

// consecutivePairs counts adjacent-value pairs in an ascending pick set.
func consecutivePairs(picks []int) int {
	sorted := make([]int, len(picks))
	copy(sorted, picks)
	sort.Ints(sorted)

	pairs := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			pairs++
		}
	}
	return pairs
}

// patternReasonable is the combined smart gate.
func patternReasonable(picks []int) bool {
	return oddEvenOK(picks) && sumOK(picks) && consecutivePairs(picks) <= 1
}
