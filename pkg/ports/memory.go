package ports

import (
	"context"

	"github.com/aretw0/vine/pkg/domain"
)

// Memory is the global side-effect memory of a computer-mode run.
// Workers merge their local arenas into it; merges must honor each key's
// operator so that the order in which workers report does not matter.
type Memory interface {
	// Merge folds a worker's side-effects into the memory.
	Merge(ctx context.Context, se *domain.SideEffects) error

	// Snapshot returns the accumulated value of every key.
	Snapshot(ctx context.Context) (map[string]any, error)

	// Clear drops every key.
	Clear(ctx context.Context) error
}
