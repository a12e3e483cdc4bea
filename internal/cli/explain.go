package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/presentation/graph"
	"github.com/aretw0/vine/internal/presentation/tui"
	"github.com/aretw0/vine/internal/validator"
	"github.com/aretw0/vine/pkg/traversal"
)

// ExplainOptions configures the explain command.
type ExplainOptions struct {
	Pipeline string
	// Format is "markdown" (default) or "mermaid".
	Format    string
	Highlight []string
	Focus     string
}

// Explain compiles the pipeline without running it and writes its step tree.
// Markdown is rendered with glamour when w is a terminal.
func Explain(eng *vine.Engine, opts ExplainOptions, w io.Writer) error {
	t, err := eng.Load(opts.Pipeline)
	if err != nil {
		return err
	}
	out, err := Describe(t, opts, isTerminal(w))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Describe locks t to assign its step ids and renders it.
func Describe(t *traversal.Traversal, opts ExplainOptions, styled bool) (string, error) {
	t.Lock()
	if err := validator.Validate(t); err != nil {
		return "", err
	}

	switch strings.ToLower(opts.Format) {
	case "mermaid":
		var overlay *graph.Overlay
		if len(opts.Highlight) > 0 || opts.Focus != "" {
			overlay = &graph.Overlay{Visited: opts.Highlight, Current: opts.Focus}
		}
		return graph.GenerateMermaid(t, overlay), nil
	case "", "markdown", "md":
		md := tui.Explain(pipelineTitle(opts.Pipeline), t)
		if !styled {
			return tui.Plain(md)
		}
		render, err := tui.NewRenderer()
		if err != nil {
			return "", err
		}
		return render(md)
	}
	return "", fmt.Errorf("unknown format %q", opts.Format)
}

func pipelineTitle(path string) string {
	if path == "" {
		return ""
	}
	return "Pipeline " + path
}
