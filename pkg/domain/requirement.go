package domain

import "sort"

// Requirement names something a traverser must carry through a step.
type Requirement string

const (
	RequirementObject      Requirement = "object"
	RequirementBulk        Requirement = "bulk"
	RequirementPath        Requirement = "path"
	RequirementLabeledPath Requirement = "labeled_path"
	RequirementSideEffects Requirement = "side_effects"
)

// Requirements is a set of Requirement values.
type Requirements map[Requirement]struct{}

// NewRequirements builds a set from the given values.
func NewRequirements(reqs ...Requirement) Requirements {
	set := make(Requirements, len(reqs))
	for _, r := range reqs {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether r is in the set.
func (s Requirements) Has(r Requirement) bool {
	_, ok := s[r]
	return ok
}

// Union returns a new set holding the members of s and every other set.
func (s Requirements) Union(others ...Requirements) Requirements {
	out := make(Requirements, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	for _, o := range others {
		for r := range o {
			out[r] = struct{}{}
		}
	}
	return out
}

// TracksPath reports whether traversers need a path history.
func (s Requirements) TracksPath() bool {
	return s.Has(RequirementPath) || s.Has(RequirementLabeledPath)
}

// Slice returns the members in a stable order.
func (s Requirements) Slice() []Requirement {
	out := make([]Requirement, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
