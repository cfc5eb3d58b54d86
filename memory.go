package rewind

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryJournalStore keeps Transitions in process memory
type MemoryJournalStore struct {
	records map[string][]*Transition
	mu      sync.RWMutex
}

// NewMemoryJournalStore creates an empty MemoryJournalStore
func NewMemoryJournalStore() *MemoryJournalStore {
	return &MemoryJournalStore{
		records: map[string][]*Transition{},
	}
}

func (s *MemoryJournalStore) Append(_ context.Context, tr *Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tr
	s.records[tr.Processor] = append(s.records[tr.Processor], &cp)
	return nil
}

// Records returns the Transitions of the named processor ordered by
// sequence
func (s *MemoryJournalStore) Records(
	_ context.Context, processor string,
) ([]*Transition, error) {
	s.mu.RLock()
	res := slices.Clone(s.records[processor])
	s.mu.RUnlock()

	slices.SortFunc(res, func(l, r *Transition) int {
		return cmp.Compare(l.Sequence, r.Sequence)
	})
	return res, nil
}

// LastSequence returns the highest stored sequence of the named processor
func (s *MemoryJournalStore) LastSequence(
	_ context.Context, processor string,
) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res int64
	for _, tr := range s.records[processor] {
		res = max(res, tr.Sequence)
	}
	return res, nil
}

func (s *MemoryJournalStore) Close() error {
	return nil
}
