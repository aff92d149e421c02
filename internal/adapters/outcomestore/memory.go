package outcomestore

import (
	"context"
	"sync"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// MemoryStore implements all three tier readers in memory. It backs local
// runs without a database and the adapter tests.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string][]model.MatchOutcome
	docs     map[string][]MatchDoc
	bookings map[string][]BookingPair
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[string][]model.MatchOutcome),
		docs:     make(map[string][]MatchDoc),
		bookings: make(map[string][]BookingPair),
	}
}

// AddResults appends finalized results for a venue.
func (s *MemoryStore) AddResults(venueID string, outcomes ...model.MatchOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[venueID] = append(s.results[venueID], outcomes...)
}

// AddDocs appends raw match documents for a venue.
func (s *MemoryStore) AddDocs(venueID string, docs ...MatchDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[venueID] = append(s.docs[venueID], docs...)
}

// AddBookings appends duo bookings for a venue.
func (s *MemoryStore) AddBookings(venueID string, pairs ...BookingPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[venueID] = append(s.bookings[venueID], pairs...)
}

func (s *MemoryStore) FinalizedOutcomes(_ context.Context, venueID string) ([]model.MatchOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.MatchOutcome(nil), s.results[venueID]...), nil
}

func (s *MemoryStore) MatchDocs(_ context.Context, venueID string) ([]MatchDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MatchDoc(nil), s.docs[venueID]...), nil
}

func (s *MemoryStore) DuoBookings(_ context.Context, venueID string) ([]BookingPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BookingPair(nil), s.bookings[venueID]...), nil
}
