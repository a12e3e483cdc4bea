package memory

import (
	"context"
	"sync"

	"github.com/aretw0/vine/pkg/domain"
)

// Memory implements ports.Memory on top of a local side-effect arena.
type Memory struct {
	mu    sync.Mutex
	arena *domain.SideEffects
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{arena: domain.NewSideEffects()}
}

// Merge folds se into the memory.
func (m *Memory) Merge(_ context.Context, se *domain.SideEffects) error {
	m.mu.Lock()
	arena := m.arena
	m.mu.Unlock()
	return arena.Merge(se)
}

// Snapshot returns every accumulated value.
func (m *Memory) Snapshot(_ context.Context) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arena.Snapshot(), nil
}

// Clear drops every key.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arena = domain.NewSideEffects()
	return nil
}
