package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// Store is the in-memory Draw History Store: an append-only, date-keyed
// collection of draw results, ordered ascending by date.
// ⭐ SSOT: 메모리 내 추첨 이력은 여기서만
//
// A run owns its Store exclusively; the mutex only covers the optional
// concurrent-strategies optimization, which reads while nothing writes.
type Store struct {
	mu     sync.RWMutex
	byDate map[string]int // DateKey -> index into draws
	draws  []contracts.DrawRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{byDate: make(map[string]int)}
}

// NewStoreFrom creates a Store seeded with existing draws (e.g. from a
// loaded snapshot). Duplicate dates in the input are rejected.
func NewStoreFrom(draws []contracts.DrawRecord) (*Store, error) {
	s := NewStore()
	for _, d := range draws {
		if err := s.Append(context.Background(), d); err != nil {
			return nil, fmt.Errorf("seed draw %s: %w", d.Key(), err)
		}
	}
	return s, nil
}

// Append stores a new draw. The write is all-or-nothing: on
// ErrDuplicateDate nothing changes and the existing record stands.
func (s *Store) Append(ctx context.Context, draw contracts.DrawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := draw.Key()
	if _, exists := s.byDate[key]; exists {
		return fmt.Errorf("draw %s: %w", key, contracts.ErrDuplicateDate)
	}

	draw.DrawDate = contracts.Midnight(draw.DrawDate)
	s.draws = append(s.draws, draw)

	// Keep ascending order; appends are usually already in order.
	sort.Slice(s.draws, func(i, j int) bool {
		return s.draws[i].DrawDate.Before(s.draws[j].DrawDate)
	})
	for i, d := range s.draws {
		s.byDate[d.Key()] = i
	}

	return nil
}

// Get returns the draw for a date, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, date time.Time) (*contracts.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, exists := s.byDate[contracts.DateKey(date)]
	if !exists {
		return nil, nil
	}

	d := s.draws[idx]
	return &d, nil
}

// All returns every draw, ascending by date.
func (s *Store) All(ctx context.Context) ([]contracts.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.DrawRecord, len(s.draws))
	copy(out, s.draws)
	return out, nil
}

// Latest returns the most recent draw, or (nil, nil) when empty.
func (s *Store) Latest(ctx context.Context) (*contracts.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.draws) == 0 {
		return nil, nil
	}

	d := s.draws[len(s.draws)-1]
	return &d, nil
}

// Len returns the number of stored draws.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.draws)
}
