package step

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/traversal"
)

// ChooseStep routes each traverser into exactly one child traversal, picked by
// the value a discriminator function computes for it.
//
// Traversers whose discriminator value matches no choice are dropped, and the
// step keeps pulling input until one matches or the input is exhausted. A
// discriminator that never returns, or an endless input with no matches, blocks
// the pull indefinitely.
//
// A child containing a reducing barrier (count, groupCount, range, dedup)
// reduces over every traverser routed to it: its output is held back until
// the step's input is exhausted, the same as in computer mode.
type ChooseStep struct {
	traversal.ComputerAwareBase
	branch  function.MapFunction
	keys    []any
	choices map[any]*traversal.Traversal

	reducing map[*traversal.Traversal]bool
	gathered map[*traversal.Traversal]bool
}

// NewChoose builds a choose step. Each child receives an EndStep and is adopted
// by the step, so it shares the side-effects of whatever traversal the step
// joins.
func NewChoose(branch function.MapFunction, choices map[any]*traversal.Traversal) (*ChooseStep, error) {
	if branch == nil {
		return nil, fmt.Errorf("%w: choose requires a branch function", domain.ErrInvalidArgument)
	}
	s := &ChooseStep{
		branch:  branch,
		choices: make(map[any]*traversal.Traversal, len(choices)),
	}
	s.Init(s, "ChooseStep")
	for k, child := range choices {
		if child == nil {
			return nil, fmt.Errorf("%w: choice %v has no traversal", domain.ErrInvalidArgument, k)
		}
		if err := child.AddStep(traversal.NewEndStep()); err != nil {
			return nil, fmt.Errorf("choice %v: %w", k, err)
		}
		s.keys = append(s.keys, k)
		s.choices[k] = child
	}
	sortKeys(s.keys)
	for _, child := range s.Children() {
		if err := child.Adopt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewChooseIf is the boolean form of NewChoose: traversers passing pred take
// onTrue, the others take onFalse.
func NewChooseIf(pred function.FilterFunction, onTrue, onFalse *traversal.Traversal) (*ChooseStep, error) {
	return NewChoose(function.FromFilter(pred), map[any]*traversal.Traversal{
		true:  onTrue,
		false: onFalse,
	})
}

// Children returns the choices ordered by key.
func (s *ChooseStep) Children() []*traversal.Traversal {
	out := make([]*traversal.Traversal, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.choices[k]
	}
	return out
}

// Keys returns the choice keys in the order of Children.
func (s *ChooseStep) Keys() []any {
	return append([]any(nil), s.keys...)
}

// Choice returns the child for key.
func (s *ChooseStep) Choice(key any) (*traversal.Traversal, bool) {
	if !domain.Hashable(key) {
		return nil, false
	}
	c, ok := s.choices[key]
	return c, ok
}

// Attach joins t and adopts every child against it, reporting side-effects a
// child declares with an operator that clashes with t's.
func (s *ChooseStep) Attach(t *traversal.Traversal) error {
	s.ComputerAwareBase.SetTraversal(t)
	var errs []error
	for _, child := range s.Children() {
		if err := child.Adopt(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ChooseStep) SetTraversal(t *traversal.Traversal) {
	attached(t, s, s.Attach(t))
}

func (s *ChooseStep) choose(start *domain.Traverser) (*traversal.Traversal, error) {
	key, err := s.branch.Apply(start)
	if err != nil {
		return nil, err
	}
	c, _ := s.Choice(key)
	return c, nil
}

// StandardAlgorithm pushes the next matching start into its child and yields
// from that child's end step.
func (s *ChooseStep) StandardAlgorithm() (traversal.Iterator, error) {
	for {
		start, err := s.NextStart()
		if errors.Is(err, domain.ErrNoSuchElement) && len(s.gathered) > 0 {
			return s.release(), nil
		}
		if err != nil {
			return nil, err
		}
		choice, err := s.choose(start)
		if err != nil {
			return nil, err
		}
		if choice == nil {
			continue
		}
		choice.AddStarts(start)
		if s.reduces(choice) {
			s.gathered[choice] = true
			continue
		}
		return choice.EndStep(), nil
	}
}

// reduces reports whether child holds a reducing barrier anywhere in its tree.
func (s *ChooseStep) reduces(child *traversal.Traversal) bool {
	if s.reducing == nil {
		s.reducing = make(map[*traversal.Traversal]bool, len(s.choices))
		for _, c := range s.Children() {
			c.Walk(func(st traversal.Step) {
				if traversal.IsBarrier(st) {
					s.reducing[c] = true
				}
			})
		}
		s.gathered = make(map[*traversal.Traversal]bool)
	}
	return s.reducing[child]
}

// release drains the gathered children in key order.
func (s *ChooseStep) release() traversal.Iterator {
	var its []traversal.Iterator
	for _, c := range s.Children() {
		if s.gathered[c] {
			its = append(its, c.EndStep())
		}
	}
	clear(s.gathered)
	return traversal.Concat(its...)
}

// ComputerAlgorithm points the next matching start at its child's start step.
func (s *ChooseStep) ComputerAlgorithm() (traversal.Iterator, error) {
	for {
		start, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		choice, err := s.choose(start)
		if err != nil {
			return nil, err
		}
		if choice == nil {
			continue
		}
		start.SetStepID(choice.StartStep().ID())
		return traversal.Single(start), nil
	}
}

func (s *ChooseStep) Requirements() domain.Requirements {
	out := domain.NewRequirements()
	for _, child := range s.Children() {
		out = out.Union(child.Requirements())
	}
	return out
}

func (s *ChooseStep) Reset() {
	s.ComputerAwareBase.Reset()
	clear(s.gathered)
	for _, child := range s.Children() {
		child.Reset()
	}
}

func (s *ChooseStep) Clone() traversal.Step {
	c := &ChooseStep{
		branch:  s.branch,
		keys:    append([]any(nil), s.keys...),
		choices: make(map[any]*traversal.Traversal, len(s.choices)),
	}
	c.ComputerAwareBase = s.ComputerAwareBase.CloneFor(c)
	for k, child := range s.choices {
		c.choices[k] = child.Clone()
	}
	for _, child := range c.Children() {
		child.SetHolder(c)
	}
	return c
}

func (s *ChooseStep) String() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = fmt.Sprintf("%v=%s", k, s.choices[k])
	}
	return traversal.MakeStepString(s, s.branch, "{"+strings.Join(parts, ", ")+"}")
}

func sortKeys(keys []any) {
	sort.SliceStable(keys, func(i, j int) bool {
		return fmt.Sprintf("%T:%v", keys[i], keys[i]) < fmt.Sprintf("%T:%v", keys[j], keys[j])
	})
}
