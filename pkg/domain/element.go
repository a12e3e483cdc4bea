package domain

import (
	"fmt"
	"sort"
)

// Direction selects which incident edges a vertex step follows.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// PropertyHolder is implemented by map-like values whose keys functions can inspect.
type PropertyHolder interface {
	Property(key string) (any, bool)
	Keys() []string
}

// Element is a graph vertex or edge.
type Element interface {
	PropertyHolder
	ElementID() any
	ElementLabel() string
}

// Vertex is a graph vertex as exposed by the storage port.
type Vertex struct {
	ID         any            `json:"id" yaml:"id" mapstructure:"id"`
	Label      string         `json:"label" yaml:"label" mapstructure:"label"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
}

// ElementID implements Element.
func (v *Vertex) ElementID() any { return v.ID }

// ElementLabel implements Element.
func (v *Vertex) ElementLabel() string { return v.Label }

// Property implements PropertyHolder.
func (v *Vertex) Property(key string) (any, bool) {
	val, ok := v.Properties[key]
	return val, ok
}

// Keys implements PropertyHolder.
func (v *Vertex) Keys() []string {
	return sortedKeys(v.Properties)
}

func (v *Vertex) String() string {
	return fmt.Sprintf("v[%v]", v.ID)
}

// Edge is a directed, labeled connection between two vertices.
type Edge struct {
	ID         any            `json:"id" yaml:"id" mapstructure:"id"`
	Label      string         `json:"label" yaml:"label" mapstructure:"label"`
	OutV       any            `json:"out_v" yaml:"out" mapstructure:"out"`
	InV        any            `json:"in_v" yaml:"in" mapstructure:"in"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
}

// ElementID implements Element.
func (e *Edge) ElementID() any { return e.ID }

// ElementLabel implements Element.
func (e *Edge) ElementLabel() string { return e.Label }

// Property implements PropertyHolder.
func (e *Edge) Property(key string) (any, bool) {
	val, ok := e.Properties[key]
	return val, ok
}

// Keys implements PropertyHolder.
func (e *Edge) Keys() []string {
	return sortedKeys(e.Properties)
}

func (e *Edge) String() string {
	return fmt.Sprintf("e[%v][%v-%s->%v]", e.ID, e.OutV, e.Label, e.InV)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
