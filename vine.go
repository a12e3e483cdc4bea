package vine

import (
	"context"
	"log/slog"

	"github.com/aretw0/vine/internal/compiler"
	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/internal/validator"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/computer"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/registry"
	"github.com/aretw0/vine/pkg/traversal"
)

// Engine is the high-level entry point for the vine library.
// It builds traversals over one graph and executes them in either mode.
type Engine struct {
	graph         ports.Graph
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	mode          domain.Mode
	workers       int
	maxSupersteps int
	memory        ports.Memory
	registry      *registry.Registry
	compiler      *compiler.Compiler
}

// New initializes an Engine. Without WithGraph it reads from an empty
// in-memory graph.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.graph == nil {
		e.graph = memory.NewGraph()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.registry == nil {
		e.registry = registry.NewDefault()
	}
	e.compiler = compiler.New(e.registry)
	return e
}

// Graph returns the graph the engine reads from.
func (e *Engine) Graph() ports.Graph { return e.graph }

// Registry returns the functions pipeline definitions can name.
func (e *Engine) Registry() *registry.Registry { return e.registry }

func (e *Engine) traversalOptions() []traversal.Option {
	return []traversal.Option{
		traversal.WithMode(e.mode),
		traversal.WithLogger(e.logger),
		traversal.WithHooks(e.hooks),
	}
}

// G starts a new traversal over the engine's graph.
func (e *Engine) G() *dsl.Builder {
	return dsl.New(e.graph, e.traversalOptions()...)
}

// Parse compiles a pipeline document. ext selects the format: ".json" or YAML.
func (e *Engine) Parse(data []byte, ext string) (*traversal.Traversal, error) {
	p, err := compiler.Parse(data, ext)
	if err != nil {
		return nil, err
	}
	return e.compile(p)
}

// Load compiles the pipeline file at path.
func (e *Engine) Load(path string) (*traversal.Traversal, error) {
	p, err := compiler.Load(path)
	if err != nil {
		return nil, err
	}
	return e.compile(p)
}

func (e *Engine) compile(p *compiler.Pipeline) (*traversal.Traversal, error) {
	t, err := e.compiler.Compile(p, e.graph, e.traversalOptions()...)
	if err != nil {
		return nil, err
	}
	if p.Name != "" {
		e.logger.Debug("pipeline compiled", "pipeline", p.Name, "steps", len(p.Steps))
	}
	return t, nil
}

// Validate checks the structure of t.
func (e *Engine) Validate(t *traversal.Traversal) error {
	return validator.Validate(t)
}

// Result is the outcome of Execute.
type Result struct {
	Values      []any
	SideEffects map[string]any
	// JobID and Supersteps are set for computer-mode runs.
	JobID      string
	Supersteps int
}

// Execute runs t to completion in its mode, feeding starts into its start
// step. In standard mode t is drained in place; in computer mode t is only
// read, apart from receiving the merged side-effects.
func (e *Engine) Execute(ctx context.Context, t *traversal.Traversal, starts ...any) (*Result, error) {
	if t.Mode() == domain.ModeComputer {
		res, err := e.computer().Submit(ctx, t, starts...)
		if err != nil {
			return nil, err
		}
		return &Result{
			Values:      res.Values(),
			SideEffects: res.SideEffects,
			JobID:       res.JobID,
			Supersteps:  res.Supersteps,
		}, nil
	}

	if len(starts) > 0 {
		t.AddStartValues(starts...)
	}
	var values []any
	err := t.ForEachRemaining(func(v any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Values: values, SideEffects: t.SideEffects().Snapshot()}, nil
}

func (e *Engine) computer() *computer.Computer {
	opts := []computer.Option{
		computer.WithWorkers(e.workers),
		computer.WithLogger(e.logger),
		computer.WithHooks(e.hooks),
		computer.WithMemory(e.memory),
	}
	if e.maxSupersteps > 0 {
		opts = append(opts, computer.WithMaxSupersteps(e.maxSupersteps))
	}
	return computer.New(opts...)
}
