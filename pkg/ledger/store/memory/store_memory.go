package memory

import (
	"context"
	"sync"

	"domusvita/pkg/domain"
	"domusvita/pkg/ledger"
)

// InMemoryStore keeps per-klient entry slices. Append order is the list order,
// which satisfies the ledger's causal ordering contract.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.KlientID][]ledger.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[domain.KlientID][]ledger.Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.KlientID] = append(s.entries[entry.KlientID], entry)
	return nil
}

func (s *InMemoryStore) ListByKlient(_ context.Context, klientID domain.KlientID) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.Entry{}, s.entries[klientID]...), nil
}
