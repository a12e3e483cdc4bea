package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/vine/internal/presentation/tui"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	b := dsl.New(memory.Modern()).V().As("a").Choose(function.Label(), map[any]*dsl.Builder{
		"person":   dsl.Anon().Values("name"),
		"software": dsl.Anon().Count(),
	}).Path()
	require.NoError(t, b.Err())
	tr := b.Traversal()
	tr.Lock()

	md := tui.Explain("", tr)
	assert.Contains(t, md, "# Traversal\n")
	assert.Contains(t, md, "Mode: **standard**")
	assert.Contains(t, md, "| 0 | `GraphStep@[a]` | a |  |")
	assert.Contains(t, md, "| 1 | `ChooseStep` |  | branch |")
	assert.Contains(t, md, "| 1.0.1 | `EndStep` |  | end |")
	assert.Contains(t, md, "| 1.1.0 | `CountStep` |  | barrier |")
	assert.Contains(t, md, "## Requirements")
	assert.Contains(t, md, "- path\n")

	assert.Contains(t, tui.Explain("Named", tr), "# Named\n")
}

func TestRenderers(t *testing.T) {
	render, err := tui.NewRenderer()
	require.NoError(t, err)
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")

	out, err = tui.Plain("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|_| |_|")
}
