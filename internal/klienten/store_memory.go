package klienten

import (
	"context"
	"sort"
	"sync"

	"domusvita/pkg/domain"
	"domusvita/pkg/platform/sentinel"
)

// InMemoryStore keeps klienten in a mutex-guarded map.
type InMemoryStore struct {
	mu       sync.RWMutex
	klienten map[domain.KlientID]Klient
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{klienten: make(map[domain.KlientID]Klient)}
}

func (s *InMemoryStore) Create(_ context.Context, k Klient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.klienten[k.ID]; exists {
		return sentinel.ErrConflict
	}
	s.klienten[k.ID] = copyKlient(k)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.KlientID) (Klient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.klienten[id]
	if !ok {
		return Klient{}, sentinel.ErrNotFound
	}
	return copyKlient(k), nil
}

// List returns klienten sorted by creation time; status filters when non-empty.
func (s *InMemoryStore) List(_ context.Context, status Status) ([]Klient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Klient, 0, len(s.klienten))
	for _, k := range s.klienten {
		if status != "" && k.Status != status {
			continue
		}
		out = append(out, copyKlient(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, k Klient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.klienten[k.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.klienten[k.ID] = copyKlient(k)
	return nil
}

func copyKlient(k Klient) Klient {
	out := k
	out.WunschWGs = append([]domain.WGID{}, k.WunschWGs...)
	out.Kommunikation = append([]Kommunikation{}, k.Kommunikation...)
	return out
}
