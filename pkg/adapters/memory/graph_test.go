package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Contract(t *testing.T) {
	ports.RunGraphContract(t, memory.NewGraph())
}

func TestMemory_Contract(t *testing.T) {
	ports.RunMemoryContract(t, memory.NewMemory())
}

func TestModern(t *testing.T) {
	g := memory.Modern()

	all, err := g.Vertices()
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "marko", all[0].Properties["name"])

	marko, err := g.Vertices(1)
	require.NoError(t, err)
	require.Len(t, marko, 1)

	knows, err := g.Adjacent(marko[0], domain.DirectionOut, "knows")
	require.NoError(t, err)
	names := make([]any, 0, len(knows))
	for _, v := range knows {
		names = append(names, v.Properties["name"])
	}
	assert.ElementsMatch(t, []any{"vadas", "josh"}, names)

	lop, err := g.Vertices("3")
	require.NoError(t, err)
	require.Len(t, lop, 1, "string ids address numeric vertices")
	creators, err := g.Adjacent(lop[0], domain.DirectionIn, "created")
	require.NoError(t, err)
	assert.Len(t, creators, 3)
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "g.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"vertices": [{"id": "a", "label": "x"}, {"id": "b", "label": "x"}],
			"edges": [{"id": "e", "label": "to", "out": "a", "in": "b"}]
		}`), 0o644))

		g, err := memory.LoadGraph(path)
		require.NoError(t, err)
		a, err := g.Vertices("a")
		require.NoError(t, err)
		es, err := g.Edges(a[0], domain.DirectionOut)
		require.NoError(t, err)
		require.Len(t, es, 1)
		assert.Equal(t, "b", es[0].InV)
	})

	t.Run("Unknown Field", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vertices:\n  - {id: 1, colour: red}\n"), 0o644))
		_, err := memory.LoadGraph(path)
		assert.Error(t, err)
	})

	t.Run("Dangling Edge", func(t *testing.T) {
		path := filepath.Join(dir, "dangling.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vertices:\n  - {id: 1}\nedges:\n  - {id: 2, out: 1, in: 9}\n"), 0o644))
		_, err := memory.LoadGraph(path)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := memory.LoadGraph(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
