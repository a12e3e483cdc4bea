package vine_test

import (
	"context"
	"testing"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modern() *vine.Engine {
	return vine.New(vine.WithGraph(memory.Modern()))
}

// allVertices feeds every vertex of the graph as a start.
func allVertices(t *testing.T, e *vine.Engine) []any {
	t.Helper()
	vs, err := e.Graph().Vertices()
	require.NoError(t, err)
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func count(t *testing.T, b *dsl.Builder) int {
	t.Helper()
	out, err := b.ToList()
	require.NoError(t, err)
	return len(out)
}

func TestCore_ForEachRemainingAfterGroupCount(t *testing.T) {
	tr := modern().G().V().Out().GroupCount().Traversal()
	calls := 0
	err := tr.ForEachRemaining(func(v any) error {
		calls++
		assert.IsType(t, map[any]int64{}, v)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCore_NoAlterationAfterLock(t *testing.T) {
	b := modern().G().V()
	ok, err := b.HasNext()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = b.Count().Next()
	require.ErrorIs(t, err, domain.ErrTraversalLocked)
	assert.Contains(t, err.Error(), domain.ErrTraversalLocked.Error())

	require.NoError(t, b.Iterate())
	ok, err = b.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCore_AddStarts(t *testing.T) {
	e := modern()
	b := e.G().Out().Out()

	ok, err := b.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)

	b.AddStarts(allVertices(t, e)...)
	ok, err = b.HasNext()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, count(t, b))

	b.AddStarts(allVertices(t, e)...)
	b.AddStarts(allVertices(t, e)...)
	assert.Equal(t, 4, count(t, b))
	ok, err = b.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCore_Reset(t *testing.T) {
	e := modern()
	b := e.G().As("a").Out().Out().Has("name", function.Within("ripple", "lop")).As("b")
	require.NoError(t, b.Err())

	hasNext := func() bool {
		ok, err := b.HasNext()
		require.NoError(t, err)
		return ok
	}

	assert.False(t, hasNext())
	b.AddStarts(allVertices(t, e)...)
	assert.True(t, hasNext())
	assert.Equal(t, 2, count(t, b))

	b.Reset()
	b.AddStarts(allVertices(t, e)...)
	assert.True(t, hasNext())
	_, err := b.Next()
	require.NoError(t, err)
	assert.True(t, hasNext())
	b.Reset()
	assert.False(t, hasNext(), "reset drops the pending result")

	b.AddStarts(allVertices(t, e)...)
	assert.Equal(t, 2, count(t, b))
	assert.False(t, hasNext())
	b.Reset()
	assert.False(t, hasNext())
}

func TestEngine_ExecuteStandard(t *testing.T) {
	e := modern()
	_, err := e.Execute(context.Background(), e.G().Out().Traversal(), 4, 6)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "integers are not vertices")

	v, err := e.Graph().Vertices(1)
	require.NoError(t, err)
	res, err := e.Execute(context.Background(), e.G().Out().Values("name").Store("names").Traversal(), v[0])
	require.NoError(t, err)
	assert.Equal(t, []any{"vadas", "josh", "lop"}, res.Values)
	assert.Equal(t, []any{"vadas", "josh", "lop"}, res.SideEffects["names"])
	assert.Empty(t, res.JobID)
}

func TestEngine_ExecuteComputerMatchesStandard(t *testing.T) {
	build := func(e *vine.Engine) *dsl.Builder {
		return e.G().V().Choose(function.Label(), map[any]*dsl.Builder{
			"person":   dsl.Anon().Out().Values("name"),
			"software": dsl.Anon().Values("lang"),
		})
	}
	standard, err := build(modern()).ToList()
	require.NoError(t, err)

	olap := vine.New(vine.WithGraph(memory.Modern()), vine.WithMode(domain.ModeComputer), vine.WithWorkers(3))
	b := build(olap)
	require.NoError(t, b.Err())
	res, err := olap.Execute(context.Background(), b.Traversal())
	require.NoError(t, err)

	assert.ElementsMatch(t, standard, res.Values)
	assert.NotEmpty(t, res.JobID)
	assert.Positive(t, res.Supersteps)
}

func TestEngine_ExecuteComputerMemory(t *testing.T) {
	mem := memory.NewMemory()
	e := vine.New(vine.WithGraph(memory.Modern()), vine.WithMode(domain.ModeComputer),
		vine.WithWorkers(2), vine.WithMemory(mem), vine.WithMaxSupersteps(50))
	res, err := e.Execute(context.Background(), e.G().V().Values("age").Sum("ages").Traversal())
	require.NoError(t, err)
	assert.Len(t, res.Values, 4)
	assert.EqualValues(t, 123, res.SideEffects["ages"])
}

func TestEngine_ExecuteCancelled(t *testing.T) {
	e := modern()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Execute(ctx, e.G().V().Traversal())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_UserErrorsPropagate(t *testing.T) {
	e := modern()
	boom := assert.AnError
	tr := e.G().V().Map("explode", func(any) (any, error) { return nil, boom }).Traversal()
	_, err := e.Execute(context.Background(), tr)
	assert.Same(t, boom, err)
}

func TestEngine_Parse(t *testing.T) {
	e := modern()
	tr, err := e.Parse([]byte(`
name: created-by
steps:
  - {step: V, ids: [3]}
  - {step: in, labels: [created]}
  - {step: values, keys: [name]}
`), ".yaml")
	require.NoError(t, err)
	require.NoError(t, e.Validate(tr))

	res, err := e.Execute(context.Background(), tr)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"marko", "josh", "peter"}, res.Values)

	_, err = e.Parse([]byte("steps: [{step: teleport}]"), ".yaml")
	assert.Error(t, err)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var locks, emitted int
	var bulk int64
	e := vine.New(vine.WithGraph(memory.Modern()),
		vine.WithLifecycleHooks(domain.LifecycleHooks{
			OnLock: func(*domain.LockEvent) { locks++ },
		}),
		vine.WithLifecycleHooks(domain.LifecycleHooks{
			OnEmit: func(ev *domain.EmitEvent) {
				emitted++
				bulk += ev.Bulk
			},
		}),
	)
	out, err := e.G().V().Values("name").ToList()
	require.NoError(t, err)

	assert.Equal(t, 1, locks)
	assert.Equal(t, len(out), emitted)
	assert.Equal(t, int64(6), bulk)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, vine.Version)
	assert.NotContains(t, vine.Version, "\n")
}
