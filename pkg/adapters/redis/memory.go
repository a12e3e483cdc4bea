package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrOperatorConflict is returned when a key is merged with a different operator
// than the one already recorded in Redis.
var ErrOperatorConflict = errors.New("side-effect operator conflict")

// Memory implements ports.Memory using Redis. Each side-effect key maps onto the
// Redis type whose native commands merge it: INCRBY for sums, SADD for sets,
// RPUSH for lists, HINCRBY for group counts and SET for assignments. Values are
// stored JSON encoded.
type Memory struct {
	client *backend.Client
	prefix string
}

type Option func(*Memory)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(m *Memory) {
		m.prefix = prefix
	}
}

// New creates a Redis memory connected to address.
func New(address, password string, db int, opts ...Option) *Memory {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis memory from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Memory {
	m := &Memory{
		client: client,
		prefix: "vine:memory:",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ping checks the connection.
func (m *Memory) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close releases the client.
func (m *Memory) Close() error {
	return m.client.Close()
}

func (m *Memory) opsKey() string {
	return m.prefix + "ops"
}

func (m *Memory) key(op domain.Operator, name string) string {
	return m.prefix + string(op) + ":" + name
}

// Merge folds se into Redis.
func (m *Memory) Merge(ctx context.Context, se *domain.SideEffects) error {
	if se == nil {
		return nil
	}
	entries := se.Entries()
	for _, e := range entries {
		if err := m.declare(ctx, e.Key, e.Op); err != nil {
			return err
		}
	}

	pipe := m.client.TxPipeline()
	for _, e := range entries {
		if e.Empty {
			continue
		}
		if err := m.queue(ctx, pipe, e); err != nil {
			return err
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to merge into redis: %w", err)
	}
	return nil
}

func (m *Memory) declare(ctx context.Context, name string, op domain.Operator) error {
	created, err := m.client.HSetNX(ctx, m.opsKey(), name, string(op)).Result()
	if err != nil {
		return fmt.Errorf("redis error declaring %q: %w", name, err)
	}
	if created {
		return nil
	}
	existing, err := m.client.HGet(ctx, m.opsKey(), name).Result()
	if err != nil {
		return fmt.Errorf("redis error reading operator of %q: %w", name, err)
	}
	if existing != string(op) {
		return fmt.Errorf("%w: %q is %s, got %s", ErrOperatorConflict, name, existing, op)
	}
	return nil
}

func (m *Memory) queue(ctx context.Context, pipe backend.Pipeliner, e domain.Entry) error {
	k := m.key(e.Op, e.Key)
	switch e.Op {
	case domain.OpSum:
		n, _ := e.Value.(int64)
		pipe.IncrBy(ctx, k, n)
	case domain.OpSet, domain.OpList:
		items, _ := e.Value.([]any)
		encoded := make([]any, 0, len(items))
		for _, it := range items {
			b, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("failed to encode %q item: %w", e.Key, err)
			}
			encoded = append(encoded, string(b))
		}
		if len(encoded) == 0 {
			return nil
		}
		if e.Op == domain.OpSet {
			pipe.SAdd(ctx, k, encoded...)
		} else {
			pipe.RPush(ctx, k, encoded...)
		}
	case domain.OpGroupCount:
		counts, _ := e.Value.(map[any]int64)
		for group, n := range counts {
			b, err := json.Marshal(group)
			if err != nil {
				return fmt.Errorf("failed to encode %q group: %w", e.Key, err)
			}
			pipe.HIncrBy(ctx, k, string(b), n)
		}
	case domain.OpAssign:
		b, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", e.Key, err)
		}
		pipe.Set(ctx, k, b, 0)
	}
	return nil
}

// Snapshot reads every key back.
func (m *Memory) Snapshot(ctx context.Context) (map[string]any, error) {
	ops, err := m.client.HGetAll(ctx, m.opsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list side-effects: %w", err)
	}
	out := make(map[string]any, len(ops))
	for name, rawOp := range ops {
		v, err := m.read(ctx, name, domain.Operator(rawOp))
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func (m *Memory) read(ctx context.Context, name string, op domain.Operator) (any, error) {
	k := m.key(op, name)
	switch op {
	case domain.OpSum:
		n, err := m.client.Get(ctx, k).Int64()
		if errors.Is(err, backend.Nil) {
			return int64(0), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		return n, nil
	case domain.OpSet, domain.OpList:
		var raw []string
		var err error
		if op == domain.OpSet {
			raw, err = m.client.SMembers(ctx, k).Result()
		} else {
			raw, err = m.client.LRange(ctx, k, 0, -1).Result()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		items := make([]any, 0, len(raw))
		for _, r := range raw {
			v, err := decodeValue(r)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %q: %w", name, err)
			}
			items = append(items, v)
		}
		return items, nil
	case domain.OpGroupCount:
		raw, err := m.client.HGetAll(ctx, k).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		counts := make(map[any]int64, len(raw))
		for group, n := range raw {
			g, err := decodeValue(group)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %q: %w", name, err)
			}
			if !domain.Hashable(g) {
				return nil, fmt.Errorf("%w: group of %q is not hashable", domain.ErrInvalidArgument, name)
			}
			var count int64
			if _, err := fmt.Sscan(n, &count); err != nil {
				return nil, fmt.Errorf("failed to decode %q count: %w", name, err)
			}
			counts[g] = count
		}
		return counts, nil
	case domain.OpAssign:
		raw, err := m.client.Get(ctx, k).Result()
		if errors.Is(err, backend.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		return decodeValue(raw)
	}
	return nil, fmt.Errorf("%w: unknown operator %q for %q", domain.ErrInvalidArgument, op, name)
}

func decodeValue(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Clear deletes every key written by this memory.
func (m *Memory) Clear(ctx context.Context) error {
	ops, err := m.client.HGetAll(ctx, m.opsKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list side-effects: %w", err)
	}
	pipe := m.client.TxPipeline()
	for name, op := range ops {
		pipe.Del(ctx, m.key(domain.Operator(op), name))
	}
	pipe.Del(ctx, m.opsKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear redis memory: %w", err)
	}
	return nil
}
