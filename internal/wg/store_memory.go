package wg

import (
	"context"
	"sort"
	"sync"

	"domusvita/pkg/domain"
	"domusvita/pkg/platform/sentinel"
)

// InMemoryStore keeps facilities in a mutex-guarded map. Suitable for tests
// and single-process deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	wgs    map[domain.WGID]PflegeWG
	byRoom map[domain.ZimmerID]domain.WGID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		wgs:    make(map[domain.WGID]PflegeWG),
		byRoom: make(map[domain.ZimmerID]domain.WGID),
	}
}

func (s *InMemoryStore) SaveWG(_ context.Context, w PflegeWG) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wgs[w.ID] = copyWG(w)
	for _, z := range w.Zimmer {
		s.byRoom[z.ID] = w.ID
	}
	return nil
}

func (s *InMemoryStore) GetWG(_ context.Context, id domain.WGID) (PflegeWG, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wgs[id]
	if !ok {
		return PflegeWG{}, sentinel.ErrNotFound
	}
	return copyWG(w), nil
}

func (s *InMemoryStore) ListWGs(_ context.Context) ([]PflegeWG, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PflegeWG, 0, len(s.wgs))
	for _, w := range s.wgs {
		out = append(out, copyWG(w))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) GetZimmer(_ context.Context, id domain.ZimmerID) (Zimmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wgID, ok := s.byRoom[id]
	if !ok {
		return Zimmer{}, sentinel.ErrNotFound
	}
	for _, z := range s.wgs[wgID].Zimmer {
		if z.ID == id {
			return z, nil
		}
	}
	return Zimmer{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateZimmer(_ context.Context, z Zimmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wgID, ok := s.byRoom[z.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	w := s.wgs[wgID]
	for i := range w.Zimmer {
		if w.Zimmer[i].ID == z.ID {
			w.Zimmer[i] = z
			s.wgs[wgID] = w
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func copyWG(w PflegeWG) PflegeWG {
	out := w
	out.Zimmer = append([]Zimmer{}, w.Zimmer...)
	return out
}
