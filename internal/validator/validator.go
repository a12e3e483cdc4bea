// Package validator checks the structural invariants of a traversal tree.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/vine/pkg/traversal"
)

// Validate walks t and its child traversals and reports every broken link,
// misplaced child and, once t is locked, every missing or duplicated step id.
func Validate(t *traversal.Traversal) error {
	v := &crawler{ids: make(map[string]traversal.Step)}
	if t.Holder() != nil {
		v.errorf("traversal is held by %s; validate its root", t.Holder())
	}
	v.visit(t, "root", t.Locked())

	if len(v.errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(v.errors), strings.Join(v.errors, "\n- "))
	}
	return nil
}

type crawler struct {
	ids    map[string]traversal.Step
	errors []string
}

func (v *crawler) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *crawler) visit(t *traversal.Traversal, where string, locked bool) {
	if t.Locked() != locked {
		v.errorf("%s: state %s differs from its root", where, t.State())
	}
	steps := t.Steps()
	for i, s := range steps {
		at := fmt.Sprintf("%s step %d (%s)", where, i, s)
		if s.Traversal() != t {
			v.errorf("%s: attached to another traversal", at)
		}
		if !linked(s.PreviousStep(), steps, i-1) {
			v.errorf("%s: previous step is %s", at, s.PreviousStep())
		}
		if !linked(s.NextStep(), steps, i+1) {
			v.errorf("%s: next step is %s", at, s.NextStep())
		}
		if locked {
			v.checkID(t, s, at)
		}

		h, ok := s.(traversal.Holder)
		if !ok {
			continue
		}
		for j, c := range h.Children() {
			child := fmt.Sprintf("%s child %d", at, j)
			if c.Holder() != s {
				v.errorf("%s: not held by its step", child)
			}
			cs := c.Steps()
			if len(cs) == 0 {
				v.errorf("%s: empty", child)
				continue
			}
			if _, ok := cs[len(cs)-1].(*traversal.EndStep); !ok {
				v.errorf("%s: ends with %s, want EndStep", child, cs[len(cs)-1])
			}
			v.visit(c, child, locked)
		}
	}
}

func (v *crawler) checkID(t *traversal.Traversal, s traversal.Step, at string) {
	id := s.ID()
	if id == "" {
		v.errorf("%s: missing id", at)
		return
	}
	if prev, dup := v.ids[id]; dup {
		v.errorf("%s: id %q already used by %s", at, id, prev)
		return
	}
	v.ids[id] = s
	if found, err := t.StepByID(id); err != nil || found != s {
		v.errorf("%s: id %q does not resolve to the step", at, id)
	}
}

// linked reports whether got is steps[i], or the empty step past either end.
func linked(got traversal.Step, steps []traversal.Step, i int) bool {
	if i < 0 || i >= len(steps) {
		_, ok := got.(*traversal.EmptyStep)
		return ok
	}
	return got == steps[i]
}
