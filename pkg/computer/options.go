package computer

import (
	"log/slog"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Computer.
type Option func(*Computer)

// WithWorkers sets the number of workers. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *Computer) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Computer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMemory sets the global memory worker side-effects are merged into.
func WithMemory(m ports.Memory) Option {
	return func(c *Computer) {
		c.memory = m
	}
}

// WithHooks registers lifecycle hooks fired at superstep boundaries.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *Computer) {
		c.hooks = c.hooks.Merge(h)
	}
}

// WithMaxSupersteps bounds the number of supersteps of a job.
func WithMaxSupersteps(n int) Option {
	return func(c *Computer) {
		c.maxSupersteps = n
	}
}

// WithTracer records a span per job and per superstep.
func WithTracer(t trace.Tracer) Option {
	return func(c *Computer) {
		if t != nil {
			c.tracer = t
		}
	}
}
