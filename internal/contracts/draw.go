package contracts

import (
	"fmt"
	"sort"
	"time"
)

// Fantasy 5 domain constants
// ⭐ SSOT: 번호 범위/개수는 여기서만 정의
const (
	PickCount = 5  // numbers per draw
	MinNumber = 1  // lowest ball
	MaxNumber = 39 // highest ball
)

// DateKey normalizes a time to its calendar-date key (draw dates carry no
// time-of-day component).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Midnight truncates a time to midnight UTC so that two times on the same
// calendar date compare equal as draw dates.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewNumberSet validates and normalizes a number sequence: exactly PickCount
// values, each within [MinNumber, MaxNumber], all distinct, returned in
// ascending order. Both drawn and picked sequences go through this gate, so
// downstream scoring never sees duplicates.
func NewNumberSet(numbers []int) ([]int, error) {
	if len(numbers) != PickCount {
		return nil, fmt.Errorf("expected %d numbers, got %d", PickCount, len(numbers))
	}

	seen := make(map[int]bool, PickCount)
	out := make([]int, 0, PickCount)
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return nil, fmt.Errorf("number %d out of range [%d, %d]", n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = true
		out = append(out, n)
	}

	sort.Ints(out)
	return out, nil
}

// DrawRecord represents one published draw result.
// Immutable once stored; a draw date appears at most once.
type DrawRecord struct {
	DrawDate  time.Time `json:"draw_date"`
	Numbers   []int     `json:"numbers"` // ascending, validated by NewNumberSet
	Source    string    `json:"source,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// NewDrawRecord builds a validated DrawRecord.
func NewDrawRecord(date time.Time, numbers []int) (*DrawRecord, error) {
	nums, err := NewNumberSet(numbers)
	if err != nil {
		return nil, fmt.Errorf("invalid draw numbers for %s: %w", DateKey(date), err)
	}

	return &DrawRecord{
		DrawDate: Midnight(date),
		Numbers:  nums,
	}, nil
}

// Key returns the uniqueness key of the record.
func (d *DrawRecord) Key() string {
	return DateKey(d.DrawDate)
}
