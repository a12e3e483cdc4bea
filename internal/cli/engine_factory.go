package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/config"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/adapters/redis"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

// BuildEngine initializes a vine engine with standard CLI conventions.
// The returned close function releases the side-effect memory.
func BuildEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*vine.Engine, func() error, error) {
	graph, err := loadGraph(cfg.Graph)
	if err != nil {
		return nil, nil, err
	}
	mem, closeMem, err := openMemory(ctx, cfg.Memory)
	if err != nil {
		return nil, nil, err
	}

	opts := []vine.Option{
		vine.WithGraph(graph),
		vine.WithLogger(logger),
		vine.WithMode(cfg.ExecutionMode()),
		vine.WithWorkers(cfg.Workers),
		vine.WithMaxSupersteps(cfg.MaxSupersteps),
		vine.WithMemory(mem),
		vine.WithLifecycleHooks(createDebugHooks(logger)),
	}
	for _, h := range hooks {
		opts = append(opts, vine.WithLifecycleHooks(h))
	}
	return vine.New(opts...), closeMem, nil
}

func loadGraph(path string) (ports.Graph, error) {
	if path == "" {
		return memory.Modern(), nil
	}
	g, err := memory.LoadGraph(path)
	if err != nil {
		return nil, fmt.Errorf("error loading graph: %w", err)
	}
	return g, nil
}

func openMemory(ctx context.Context, cfg config.Memory) (ports.Memory, func() error, error) {
	switch cfg.Kind {
	case "redis":
		var opts []redis.Option
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		mem := redis.New(cfg.Addr, cfg.Password, cfg.DB, opts...)
		if err := mem.Ping(ctx); err != nil {
			_ = mem.Close()
			return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		return mem, mem.Close, nil
	default:
		return memory.NewMemory(), func() error { return nil }, nil
	}
}
