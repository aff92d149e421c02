package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// MemoryStore keeps snapshots in process memory. The default backend for
// single-instance deployments and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]*model.Leaderboard
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]*model.Leaderboard)}
}

func (s *MemoryStore) Get(_ context.Context, venueID string) (*model.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lb, ok := s.boards[venueID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lb
	cp.Entries = append([]model.RatingEntry(nil), lb.Entries...)
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, lb *model.Leaderboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *lb
	cp.Entries = append([]model.RatingEntry(nil), lb.Entries...)
	s.boards[lb.VenueID] = &cp
	return nil
}

func (s *MemoryStore) Venues(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.boards))
	for id := range s.boards {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
