package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/vine/pkg/traversal"
)

// Explain describes a locked traversal as markdown: one table row per step in
// walk order, followed by the requirements of the whole tree.
func Explain(title string, t *traversal.Traversal) string {
	var sb strings.Builder
	if title == "" {
		title = "Traversal"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "`%s`\n\n", t)
	fmt.Fprintf(&sb, "Mode: **%s**\n\n", t.Mode())

	sb.WriteString("| id | step | labels | kind |\n")
	sb.WriteString("|----|------|--------|------|\n")
	t.Walk(func(s traversal.Step) {
		name := s.String()
		if n, ok := s.(interface{ Name() string }); ok {
			if _, holder := s.(traversal.Holder); holder {
				name = n.Name()
			}
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n",
			s.ID(), strings.ReplaceAll(name, "|", "\\|"), strings.Join(s.Labels(), ", "), kind(s))
	})

	reqs := t.Requirements().Slice()
	if len(reqs) > 0 {
		sb.WriteString("\n## Requirements\n\n")
		for _, r := range reqs {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}
	return sb.String()
}

func kind(s traversal.Step) string {
	switch s.(type) {
	case traversal.Holder:
		return "branch"
	case *traversal.EndStep:
		return "end"
	}
	if traversal.IsBarrier(s) {
		return "barrier"
	}
	return ""
}
