// Package memory provides an in-process PlanStore for single-instance
// deployments and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/voyant/pkg/domain"
)

// Store implements ports.PlanStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.PlanState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.PlanState),
	}
}

// clone deep-copies a state through JSON so callers and the store never
// share the nested Outputs and FinalOutput values.
func clone(state *domain.PlanState) (*domain.PlanState, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to copy plan state: %w", err)
	}
	var copied domain.PlanState
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("failed to copy plan state: %w", err)
	}
	return &copied, nil
}

// Save persists the state in memory.
func (s *Store) Save(ctx context.Context, planRunID string, state *domain.PlanState) error {
	copied, err := clone(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[planRunID] = copied
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	s.mu.RLock()
	state, ok := s.data[planRunID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrPlanNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer.
	return clone(state)
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, planRunID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, planRunID)
	return nil
}

// List returns known plan runs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	return runs, nil
}
