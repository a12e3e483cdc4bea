package vine

import (
	"log/slog"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/registry"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph sets the graph traversals read from.
func WithGraph(g ports.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls add hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMode sets the mode of the traversals the engine builds.
func WithMode(m domain.Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithWorkers sets the number of computer-mode workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithMemory sets where computer-mode side-effects are merged.
func WithMemory(m ports.Memory) Option {
	return func(e *Engine) {
		e.memory = m
	}
}

// WithRegistry sets the functions pipeline definitions can name.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithMaxSupersteps bounds computer-mode jobs.
func WithMaxSupersteps(n int) Option {
	return func(e *Engine) {
		e.maxSupersteps = n
	}
}
