package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/vine/internal/presentation/graph"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branching(t *testing.T) *traversal.Traversal {
	t.Helper()
	b := dsl.New(memory.Modern()).V().Choose(function.Label(), map[any]*dsl.Builder{
		"person":   dsl.Anon().Values("name"),
		"software": dsl.Anon().Constant("thing"),
	}).Count()
	require.NoError(t, b.Err())
	return b.Traversal()
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		traversal   func(t *testing.T) *traversal.Traversal
		contains    []string
		notContains []string
	}{
		{
			name: "Linear Pipeline",
			traversal: func(t *testing.T) *traversal.Traversal {
				return dsl.New(memory.Modern()).V().Out().Values("name").Traversal()
			},
			contains: []string{
				"graph TD\n",
				"s0((\"GraphStep\"))",
				"s0 --> s1",
				"s1 --> s2",
				"s2[\"FlatMapStep(values(name))\"]",
			},
		},
		{
			name:      "Branch Shapes",
			traversal: branching,
			contains: []string{
				"s1{\"ChooseStep\"}",
				"s2[[\"CountStep\"]]",
				"s1_0_1([\"EndStep\"])",
			},
		},
		{
			name:      "Branch Edges",
			traversal: branching,
			contains: []string{
				"s1 -- \"person\" --> s1_0_0",
				"s1 -- \"software\" --> s1_1_0",
				"s1_0_0 --> s1_0_1",
				"s1_0_1 -.-> s2",
				"s1_1_1 -.-> s2",
			},
			notContains: []string{
				"s1 --> s2",
			},
		},
		{
			name: "Quote Escaping",
			traversal: func(t *testing.T) *traversal.Traversal {
				return dsl.New(memory.Modern()).V().Values(`"q"`).Traversal()
			},
			contains:    []string{"values('q')"},
			notContains: []string{`values("q")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.traversal(t), nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(branching(t), &graph.Overlay{
		Visited: []string{"0", "1", "1", ""},
		Current: "1.0.0",
	})

	assert.Contains(t, got, "classDef visited")
	assert.Contains(t, got, "class s0 visited;")
	assert.Equal(t, 1, strings.Count(got, "class s1 visited;"))
	assert.Contains(t, got, "class s1_0_0 current;")
}

func TestGenerateMermaid_MatchesLockedIDs(t *testing.T) {
	tr := branching(t)
	tr.Lock()
	got := graph.GenerateMermaid(tr, nil)

	tr.Walk(func(s traversal.Step) {
		id := "s" + strings.ReplaceAll(s.ID(), ".", "_")
		assert.Contains(t, got, "    "+id, "step %s has a node", s.ID())
	})
}

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "graph TD\n", graph.GenerateMermaid(traversal.New(), nil))
}
