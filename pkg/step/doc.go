// Package step is the library of concrete pipeline steps: the choose branch and
// the map, filter, graph, barrier, side-effect and path steps the DSL composes.
package step
