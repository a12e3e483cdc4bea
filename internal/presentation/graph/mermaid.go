package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/vine/pkg/traversal"
)

// Overlay contains dynamic state data to visualize on the graph, keyed by
// step id.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a traversal tree.
// Nodes are keyed by the ids the steps take once the root is locked.
// It applies semantic styling:
// - Source (first root step): ((Circle))
// - Branch (step holding children): {Rhombus}
// - Barrier: [[Subroutine]]
// - EndStep: ([Stadium])
// - Default: [Rectangle]
// Branch edges carry the choice key; dotted edges join branch ends back into
// the parent pipeline.
func GenerateMermaid(t *traversal.Traversal, overlay *Overlay) string {
	r := &renderer{}
	r.sb.WriteString("graph TD\n")
	r.pipeline(t, "", true)

	if overlay != nil {
		r.sb.WriteString("\n    %% Overlay Styles\n")
		r.sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		r.sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := nodeID(id)
			if id != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&r.sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&r.sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}
	return r.sb.String()
}

type renderer struct {
	sb strings.Builder
}

// pipeline writes the steps of t and returns the ids of its first and last nodes.
func (r *renderer) pipeline(t *traversal.Traversal, prefix string, root bool) (first, last string) {
	var (
		prev  string
		joins []string
	)
	for i, s := range t.Steps() {
		id := nodeID(prefix + strconv.Itoa(i))
		r.node(id, s, root && i == 0)
		if prev != "" {
			fmt.Fprintf(&r.sb, "    %s --> %s\n", prev, id)
		}
		for _, j := range joins {
			fmt.Fprintf(&r.sb, "    %s -.-> %s\n", j, id)
		}
		if first == "" {
			first = id
		}
		last = id
		prev, joins = id, nil

		h, ok := s.(traversal.Holder)
		if !ok {
			continue
		}
		keys := branchKeys(s)
		for j, c := range h.Children() {
			cFirst, cLast := r.pipeline(c, prefix+strconv.Itoa(i)+"."+strconv.Itoa(j)+".", false)
			if cFirst == "" {
				continue
			}
			if j < len(keys) {
				fmt.Fprintf(&r.sb, "    %s -- \"%s\" --> %s\n", id, escape(fmt.Sprint(keys[j])), cFirst)
			} else {
				fmt.Fprintf(&r.sb, "    %s --> %s\n", id, cFirst)
			}
			joins = append(joins, cLast)
		}
		if len(joins) > 0 {
			prev = ""
		}
	}
	return first, last
}

func (r *renderer) node(id string, s traversal.Step, source bool) {
	label := s.String()
	opener, closer := "[", "]"

	_, isHolder := s.(traversal.Holder)
	_, isEnd := s.(*traversal.EndStep)
	switch {
	case source:
		opener, closer = "((", "))"
	case isHolder:
		opener, closer = "{", "}"
		if n, ok := s.(interface{ Name() string }); ok {
			label = n.Name()
		}
	case traversal.IsBarrier(s):
		opener, closer = "[[", "]]"
	case isEnd:
		opener, closer = "([", "])"
	}
	fmt.Fprintf(&r.sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)
}

func branchKeys(s traversal.Step) []any {
	if k, ok := s.(interface{ Keys() []any }); ok {
		return k.Keys()
	}
	return nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func nodeID(id string) string {
	return "s" + sanitizeMermaidID(id)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
