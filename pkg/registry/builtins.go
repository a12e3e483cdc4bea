package registry

import (
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/function"
)

// Common carries the options every built-in accepts.
type Common struct {
	Coefficient int64    `mapstructure:"coefficient"`
	Labels      []string `mapstructure:"labels"`
}

func (c Common) options() []function.Option {
	var opts []function.Option
	if c.Coefficient != 0 {
		opts = append(opts, function.WithCoefficient(function.Long(c.Coefficient)))
	}
	if len(c.Labels) > 0 {
		opts = append(opts, function.WithLabels(c.Labels...))
	}
	return opts
}

// PredicateArgs selects a predicate by name with its operands.
type PredicateArgs struct {
	Predicate string `mapstructure:"predicate"`
	Value     any    `mapstructure:"value"`
	Values    []any  `mapstructure:"values"`
}

// Build resolves the named predicate, defaulting to eq.
func (p PredicateArgs) Build() (function.P, error) {
	name := p.Predicate
	if name == "" {
		name = "eq"
	}
	args := p.Values
	if len(args) == 0 {
		args = []any{p.Value}
	}
	pred, ok := function.PredicateFor(name, args...)
	if !ok {
		return function.P{}, fmt.Errorf("%w: unknown predicate %q", domain.ErrInvalidArgument, name)
	}
	return pred, nil
}

func registerBuiltins(r *Registry) {
	r.RegisterMap("identity", func(args map[string]any) (function.MapFunction, error) {
		var a Common
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.Identity(a.options()...), nil
	})
	r.RegisterMap("label", func(args map[string]any) (function.MapFunction, error) {
		var a Common
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.Label(a.options()...), nil
	})
	r.RegisterMap("id", func(args map[string]any) (function.MapFunction, error) {
		var a Common
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.ID(a.options()...), nil
	})
	r.RegisterMap("constant", func(args map[string]any) (function.MapFunction, error) {
		var a struct {
			Common `mapstructure:",squash"`
			Value  any `mapstructure:"value"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.ConstantValue(a.Value, a.options()...), nil
	})
	r.RegisterMap("property", func(args map[string]any) (function.MapFunction, error) {
		var a struct {
			Common `mapstructure:",squash"`
			Key    string `mapstructure:"key"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		if a.Key == "" {
			return nil, fmt.Errorf("%w: property requires a key", domain.ErrInvalidArgument)
		}
		return function.Resolve(function.Property(a.Key), a.options()...), nil
	})

	r.RegisterFilter("has", func(args map[string]any) (function.FilterFunction, error) {
		var a struct {
			Common        `mapstructure:",squash"`
			PredicateArgs `mapstructure:",squash"`
			Key           string `mapstructure:"key"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		p, err := a.Build()
		if err != nil {
			return nil, err
		}
		return function.Has(function.Constant(a.Key), p, a.options()...), nil
	})
	r.RegisterFilter("has_key", func(args map[string]any) (function.FilterFunction, error) {
		var a struct {
			Common `mapstructure:",squash"`
			Key    any `mapstructure:"key"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.HasKey(function.Constant(a.Key), a.options()...), nil
	})
	r.RegisterFilter("has_label", func(args map[string]any) (function.FilterFunction, error) {
		var a struct {
			Common `mapstructure:",squash"`
			Values []string `mapstructure:"values"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		return function.HasLabel(a.Values, a.options()...), nil
	})
	r.RegisterFilter("is", func(args map[string]any) (function.FilterFunction, error) {
		var a struct {
			Common        `mapstructure:",squash"`
			PredicateArgs `mapstructure:",squash"`
		}
		if err := Decode(args, &a); err != nil {
			return nil, err
		}
		p, err := a.Build()
		if err != nil {
			return nil, err
		}
		return function.Is(p, a.options()...), nil
	})
}
