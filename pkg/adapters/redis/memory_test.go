package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/vine/pkg/adapters/redis"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T, opts ...redis.Option) (*redis.Memory, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisMemory_Contract(t *testing.T) {
	mem, _ := newMemory(t)
	ports.RunMemoryContract(t, mem)
}

func TestRedisMemory_OperatorConflict(t *testing.T) {
	mem, _ := newMemory(t)
	ctx := context.Background()

	a := domain.NewSideEffects()
	require.NoError(t, a.Declare("x", domain.OpSum))
	require.NoError(t, mem.Merge(ctx, a))

	b := domain.NewSideEffects()
	require.NoError(t, b.Declare("x", domain.OpList))
	err := mem.Merge(ctx, b)
	assert.ErrorIs(t, err, redis.ErrOperatorConflict)
}

func TestRedisMemory_Prefix(t *testing.T) {
	mem, mr := newMemory(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	se := domain.NewSideEffects()
	require.NoError(t, se.Declare("n", domain.OpSum))
	require.NoError(t, se.AddBulk("n", 2, 3))
	require.NoError(t, mem.Merge(ctx, se))

	got, err := mr.Get("test:sum:n")
	require.NoError(t, err)
	assert.Equal(t, "6", got)

	require.NoError(t, mem.Clear(ctx))
	assert.False(t, mr.Exists("test:sum:n"))
	assert.False(t, mr.Exists("test:ops"))
}

func TestRedisMemory_PingAndClose(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	mem := redis.New(mr.Addr(), "", 0)
	require.NoError(t, mem.Ping(context.Background()))
	require.NoError(t, mem.Close())
	assert.Error(t, mem.Ping(context.Background()))
}
