package compiler

import (
	"errors"
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/registry"
	"github.com/aretw0/vine/pkg/traversal"
)

// ErrUnknownStep is returned for a step name the compiler does not know.
var ErrUnknownStep = errors.New("unknown step")

// Compiler builds traversals from pipelines, resolving named functions
// through a registry.
type Compiler struct {
	reg *registry.Registry
}

// New creates a compiler. A nil reg uses the built-in functions.
func New(reg *registry.Registry) *Compiler {
	if reg == nil {
		reg = registry.NewDefault()
	}
	return &Compiler{reg: reg}
}

// Compile builds p into a traversal over g. The pipeline mode, when set,
// overrides any WithMode in opts.
func (c *Compiler) Compile(p *Pipeline, g ports.Graph, opts ...traversal.Option) (*traversal.Traversal, error) {
	if p.Mode != "" {
		m, ok := domain.ParseMode(p.Mode)
		if !ok {
			return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidArgument, p.Mode)
		}
		opts = append(opts, traversal.WithMode(m))
	}
	b, err := c.steps(dsl.New(g, opts...), p.Steps, "steps")
	if err != nil {
		return nil, err
	}
	if len(p.Starts) > 0 {
		b = b.AddStarts(p.Starts...)
	}
	return b.Traversal(), nil
}

func (c *Compiler) steps(b *dsl.Builder, defs []StepDef, path string) (*dsl.Builder, error) {
	for i, def := range defs {
		at := fmt.Sprintf("%s[%d]", path, i)
		next, err := c.step(b, def, at)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", at, def.Step, err)
		}
		if def.As != "" {
			next = next.As(def.As)
		}
		if err := next.Err(); err != nil {
			return nil, fmt.Errorf("%s (%s): %w", at, def.Step, err)
		}
		b = next
	}
	return b, nil
}

func (c *Compiler) branch(defs []StepDef, path string) (*dsl.Builder, error) {
	return c.steps(dsl.Anon(), defs, path)
}

func (c *Compiler) step(b *dsl.Builder, def StepDef, at string) (*dsl.Builder, error) {
	switch def.Step {
	case "V":
		return b.V(def.IDs...), nil
	case "out":
		return b.Out(def.Labels...), nil
	case "in":
		return b.In(def.Labels...), nil
	case "both":
		return b.Both(def.Labels...), nil
	case "has":
		p, err := predicate(def)
		if err != nil {
			return nil, err
		}
		return b.Has(def.Key, p), nil
	case "has_key":
		return b.HasKey(def.Key), nil
	case "has_label":
		return b.HasLabel(def.Labels...), nil
	case "is":
		p, err := predicate(def)
		if err != nil {
			return nil, err
		}
		return b.Is(p), nil
	case "values":
		return b.Values(def.Keys...), nil
	case "label":
		return b.Label(), nil
	case "id":
		return b.ID(), nil
	case "constant":
		return b.Constant(def.Value), nil
	case "identity":
		return b.Identity(), nil
	case "map":
		fn, err := c.reg.Map(def.By, def.Args)
		if err != nil {
			return nil, err
		}
		return b.Apply(fn), nil
	case "filter":
		fn, err := c.reg.Filter(def.Filter, def.Args)
		if err != nil {
			return nil, err
		}
		return b.Where(fn), nil
	case "choose":
		return c.choose(b, def, at)
	case "choose_if":
		return c.chooseIf(b, def, at)
	case "path":
		return b.Path(), nil
	case "select":
		return b.Select(def.Labels...), nil
	case "store":
		return b.Store(def.Key), nil
	case "sum":
		return b.Sum(def.Key), nil
	case "group_count":
		if def.By != "" {
			fn, err := c.reg.Map(def.By, def.Args)
			if err != nil {
				return nil, err
			}
			return b.GroupCountBy(fn), nil
		}
		if def.Key != "" {
			return b.GroupCountInto(def.Key), nil
		}
		return b.GroupCount(), nil
	case "count":
		return b.Count(), nil
	case "limit":
		return b.Limit(def.N), nil
	case "range":
		return b.Range(def.Low, def.High), nil
	case "dedup":
		return b.Dedup(), nil
	}
	return nil, ErrUnknownStep
}

func (c *Compiler) choose(b *dsl.Builder, def StepDef, at string) (*dsl.Builder, error) {
	by, err := c.reg.Map(def.By, def.Args)
	if err != nil {
		return nil, err
	}
	choices := make(map[any]*dsl.Builder, len(def.Branches))
	for k, defs := range def.Branches {
		child, err := c.branch(defs, fmt.Sprintf("%s.branches[%v]", at, k))
		if err != nil {
			return nil, err
		}
		choices[k] = child
	}
	return b.Choose(by, choices), nil
}

func (c *Compiler) chooseIf(b *dsl.Builder, def StepDef, at string) (*dsl.Builder, error) {
	pred, err := c.reg.Filter(def.Filter, def.Args)
	if err != nil {
		return nil, err
	}
	onTrue, err := c.branch(def.Then, at+".then")
	if err != nil {
		return nil, err
	}
	onFalse, err := c.branch(def.Else, at+".else")
	if err != nil {
		return nil, err
	}
	return b.ChooseIf(pred, onTrue, onFalse), nil
}

func predicate(def StepDef) (function.P, error) {
	return registry.PredicateArgs{
		Predicate: def.Predicate,
		Value:     def.Value,
		Values:    def.Values,
	}.Build()
}
