// Package store keeps live sign-in flows.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/flow"
)

// Memory is a process-local flow store. Flows are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{flows: make(map[string]*flow.Flow)}
}

// Put stores f under its id, replacing any previous flow with that id.
func (s *Memory) Put(_ context.Context, f *flow.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flows[f.ID()] = f
	return nil
}

// Get returns the flow with id or entity.ErrFlowNotFound.
func (s *Memory) Get(_ context.Context, id string) (*flow.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.flows[id]
	if !ok {
		return nil, entity.ErrFlowNotFound
	}
	return f, nil
}

// Delete removes and returns the flow with id or entity.ErrFlowNotFound.
func (s *Memory) Delete(_ context.Context, id string) (*flow.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[id]
	if !ok {
		return nil, entity.ErrFlowNotFound
	}
	delete(s.flows, id)

	return f, nil
}

// IdleBefore returns the flows whose last operation happened before cutoff.
func (s *Memory) IdleBefore(_ context.Context, cutoff time.Time) ([]*flow.Flow, error) {
	s.mu.RLock()
	all := lo.Values(s.flows)
	s.mu.RUnlock()

	return lo.Filter(all, func(f *flow.Flow, _ int) bool {
		return f.IdleSince().Before(cutoff)
	}), nil
}

// Len reports how many flows are stored.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.flows)
}
