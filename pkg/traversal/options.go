package traversal

import (
	"log/slog"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

// Option configures a Traversal.
type Option func(*Traversal)

// WithGraph sets the graph that graph steps read from.
func WithGraph(g ports.Graph) Option {
	return func(t *Traversal) {
		t.graph = g
	}
}

// WithMode selects the execution algorithm of computer-aware steps.
func WithMode(m domain.Mode) Option {
	return func(t *Traversal) {
		t.mode = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Traversal) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(t *Traversal) {
		t.hooks = t.hooks.Merge(h)
	}
}

// WithSideEffects makes the traversal use se as its arena.
func WithSideEffects(se *domain.SideEffects) Option {
	return func(t *Traversal) {
		if se != nil {
			t.sideEffects = se
		}
	}
}
