package domain

import (
	"fmt"
	"strings"
)

// Path is the ordered history of values a traverser visited, each optionally labeled.
// A Path is never mutated after it is shared: Extend and AddLabels return copies.
type Path struct {
	objects []any
	labels  [][]string
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// Extend returns a new path with value appended under the given labels.
func (p *Path) Extend(value any, labels ...string) *Path {
	next := &Path{
		objects: make([]any, len(p.objects), len(p.objects)+1),
		labels:  make([][]string, len(p.labels), len(p.labels)+1),
	}
	copy(next.objects, p.objects)
	copy(next.labels, p.labels)
	next.objects = append(next.objects, value)
	next.labels = append(next.labels, append([]string(nil), labels...))
	return next
}

// AddLabels returns a new path whose head carries the extra labels.
// An empty path is returned unchanged.
func (p *Path) AddLabels(labels ...string) *Path {
	if len(p.objects) == 0 || len(labels) == 0 {
		return p
	}
	next := &Path{
		objects: p.objects,
		labels:  make([][]string, len(p.labels)),
	}
	copy(next.labels, p.labels)
	last := len(next.labels) - 1
	head := append([]string(nil), next.labels[last]...)
	for _, l := range labels {
		if !containsString(head, l) {
			head = append(head, l)
		}
	}
	next.labels[last] = head
	return next
}

// Len returns the number of entries in the path.
func (p *Path) Len() int {
	return len(p.objects)
}

// Objects returns a copy of the visited values.
func (p *Path) Objects() []any {
	return append([]any(nil), p.objects...)
}

// Labels returns a copy of the labels attached to each entry.
func (p *Path) Labels() [][]string {
	out := make([][]string, len(p.labels))
	for i, ls := range p.labels {
		out[i] = append([]string(nil), ls...)
	}
	return out
}

// Get returns the most recent value stored under label.
func (p *Path) Get(label string) (any, bool) {
	for i := len(p.labels) - 1; i >= 0; i-- {
		if containsString(p.labels[i], label) {
			return p.objects[i], true
		}
	}
	return nil, false
}

// HasLabel reports whether any entry carries label.
func (p *Path) HasLabel(label string) bool {
	_, ok := p.Get(label)
	return ok
}

func (p *Path) String() string {
	parts := make([]string, len(p.objects))
	for i, o := range p.objects {
		parts[i] = fmt.Sprint(o)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
