package ports

import (
	"context"
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGraphContract runs a suite of tests to verify that a MutableGraph implementation
// adheres to the defined interface contract. The graph must start empty.
func RunGraphContract(t *testing.T, g MutableGraph) {
	require.NoError(t, g.AddVertex(&domain.Vertex{ID: "a", Label: "person", Properties: map[string]any{"name": "alice"}}))
	require.NoError(t, g.AddVertex(&domain.Vertex{ID: "b", Label: "person", Properties: map[string]any{"name": "bob"}}))
	require.NoError(t, g.AddVertex(&domain.Vertex{ID: "c", Label: "software", Properties: map[string]any{"name": "vine"}}))
	require.NoError(t, g.AddEdge(&domain.Edge{ID: "ab", Label: "knows", OutV: "a", InV: "b"}))
	require.NoError(t, g.AddEdge(&domain.Edge{ID: "ac", Label: "created", OutV: "a", InV: "c"}))
	require.NoError(t, g.AddEdge(&domain.Edge{ID: "bc", Label: "created", OutV: "b", InV: "c"}))

	ids := func(vs []*domain.Vertex) []any {
		out := make([]any, 0, len(vs))
		for _, v := range vs {
			out = append(out, v.ID)
		}
		return out
	}

	t.Run("All Vertices", func(t *testing.T) {
		vs, err := g.Vertices()
		require.NoError(t, err)
		assert.ElementsMatch(t, []any{"a", "b", "c"}, ids(vs))
	})

	t.Run("Vertices By ID Skips Unknown", func(t *testing.T) {
		vs, err := g.Vertices("b", "zzz")
		require.NoError(t, err)
		assert.Equal(t, []any{"b"}, ids(vs))
	})

	t.Run("Adjacent Out", func(t *testing.T) {
		a, err := g.Vertices("a")
		require.NoError(t, err)
		require.Len(t, a, 1)

		vs, err := g.Adjacent(a[0], domain.DirectionOut)
		require.NoError(t, err)
		assert.ElementsMatch(t, []any{"b", "c"}, ids(vs))

		vs, err = g.Adjacent(a[0], domain.DirectionOut, "knows")
		require.NoError(t, err)
		assert.Equal(t, []any{"b"}, ids(vs))
	})

	t.Run("Adjacent In And Both", func(t *testing.T) {
		c, err := g.Vertices("c")
		require.NoError(t, err)
		vs, err := g.Adjacent(c[0], domain.DirectionIn)
		require.NoError(t, err)
		assert.ElementsMatch(t, []any{"a", "b"}, ids(vs))

		b, err := g.Vertices("b")
		require.NoError(t, err)
		vs, err = g.Adjacent(b[0], domain.DirectionBoth)
		require.NoError(t, err)
		assert.ElementsMatch(t, []any{"a", "c"}, ids(vs))
	})

	t.Run("Edges", func(t *testing.T) {
		a, err := g.Vertices("a")
		require.NoError(t, err)
		es, err := g.Edges(a[0], domain.DirectionOut, "created")
		require.NoError(t, err)
		require.Len(t, es, 1)
		assert.Equal(t, "ac", es[0].ID)
	})

	t.Run("Dangling Edge Rejected", func(t *testing.T) {
		err := g.AddEdge(&domain.Edge{ID: "bad", Label: "knows", OutV: "a", InV: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

// RunMemoryContract runs a suite of tests to verify that a Memory implementation
// honors side-effect operators when merging. The memory must start empty.
func RunMemoryContract(t *testing.T, m Memory) {
	ctx := context.Background()

	worker := func(t *testing.T, fill func(se *domain.SideEffects)) *domain.SideEffects {
		se := domain.NewSideEffects()
		require.NoError(t, se.Declare("total", domain.OpSum))
		require.NoError(t, se.Declare("names", domain.OpSet))
		require.NoError(t, se.Declare("langs", domain.OpGroupCount))
		require.NoError(t, se.Declare("last", domain.OpAssign))
		fill(se)
		return se
	}

	t.Run("Merge Is Operator Aware", func(t *testing.T) {
		require.NoError(t, m.Clear(ctx))

		w1 := worker(t, func(se *domain.SideEffects) {
			require.NoError(t, se.AddBulk("total", 3, 2))
			require.NoError(t, se.Add("names", "marko"))
			require.NoError(t, se.Add("langs", "java"))
			require.NoError(t, se.Add("last", "w1"))
		})
		w2 := worker(t, func(se *domain.SideEffects) {
			require.NoError(t, se.Add("total", 4))
			require.NoError(t, se.Add("names", "marko"))
			require.NoError(t, se.Add("names", "josh"))
			require.NoError(t, se.AddBulk("langs", "java", 2))
		})
		require.NoError(t, m.Merge(ctx, w1))
		require.NoError(t, m.Merge(ctx, w2))

		snap, err := m.Snapshot(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 10, snap["total"])
		assert.ElementsMatch(t, []any{"marko", "josh"}, snap["names"])
		counts, ok := snap["langs"].(map[any]int64)
		require.True(t, ok, "group_count snapshots as map[any]int64, got %T", snap["langs"])
		assert.EqualValues(t, 3, counts["java"])
		assert.Equal(t, "w1", snap["last"])
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, m.Merge(ctx, worker(t, func(se *domain.SideEffects) {
			require.NoError(t, se.Add("total", 1))
		})))
		require.NoError(t, m.Clear(ctx))
		snap, err := m.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})
}
