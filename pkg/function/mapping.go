package function

import (
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
)

// IdentityMap returns the current value unchanged.
type IdentityMap struct {
	Base
}

// Identity builds an IdentityMap.
func Identity(opts ...Option) *IdentityMap {
	return &IdentityMap{Base: NewBase(opts...)}
}

// Apply implements MapFunction.
func (f *IdentityMap) Apply(t *domain.Traverser) (any, error) {
	return t.Get(), nil
}

func (f *IdentityMap) String() string {
	return MakeString("identity", f)
}

// ConstantMap replaces every value with a constant.
type ConstantMap struct {
	Base
	value any
}

// ConstantValue builds a ConstantMap.
func ConstantValue(value any, opts ...Option) *ConstantMap {
	return &ConstantMap{Base: NewBase(opts...), value: value}
}

// Apply implements MapFunction.
func (f *ConstantMap) Apply(*domain.Traverser) (any, error) {
	return f.value, nil
}

func (f *ConstantMap) String() string {
	return MakeString("constant", f, f.value)
}

// LabelMap maps a graph element to its label.
type LabelMap struct {
	Base
}

// Label builds a LabelMap.
func Label(opts ...Option) *LabelMap {
	return &LabelMap{Base: NewBase(opts...)}
}

// Apply implements MapFunction.
func (f *LabelMap) Apply(t *domain.Traverser) (any, error) {
	e, ok := t.Get().(domain.Element)
	if !ok {
		return nil, fmt.Errorf("%w: label() of %T", domain.ErrInvalidArgument, t.Get())
	}
	return e.ElementLabel(), nil
}

func (f *LabelMap) String() string {
	return MakeString("label", f)
}

// IDMap maps a graph element to its identifier.
type IDMap struct {
	Base
}

// ID builds an IDMap.
func ID(opts ...Option) *IDMap {
	return &IDMap{Base: NewBase(opts...)}
}

// Apply implements MapFunction.
func (f *IDMap) Apply(t *domain.Traverser) (any, error) {
	e, ok := t.Get().(domain.Element)
	if !ok {
		return nil, fmt.Errorf("%w: id() of %T", domain.ErrInvalidArgument, t.Get())
	}
	return e.ElementID(), nil
}

func (f *IDMap) String() string {
	return MakeString("id", f)
}

// ArgumentMap maps every traverser to the resolution of an Argument.
type ArgumentMap struct {
	Base
	arg Argument
}

// Resolve builds an ArgumentMap, e.g. Resolve(Property("name")).
func Resolve(arg Argument, opts ...Option) *ArgumentMap {
	return &ArgumentMap{Base: NewBase(opts...), arg: arg}
}

// Apply implements MapFunction.
func (f *ArgumentMap) Apply(t *domain.Traverser) (any, error) {
	return f.arg.Get(t)
}

func (f *ArgumentMap) String() string {
	return MakeString("map", f, f.arg)
}

// LambdaMap adapts a Go function over values.
type LambdaMap struct {
	Base
	name string
	fn   func(any) (any, error)
}

// MapLambda wraps fn as a MapFunction rendered as name.
func MapLambda(name string, fn func(any) (any, error), opts ...Option) *LambdaMap {
	return &LambdaMap{Base: NewBase(opts...), name: name, fn: fn}
}

// Apply implements MapFunction.
func (f *LambdaMap) Apply(t *domain.Traverser) (any, error) {
	return f.fn(t.Get())
}

func (f *LambdaMap) String() string {
	return MakeString(f.name, f)
}

// PredicateMap turns a FilterFunction into a boolean-valued MapFunction, which
// is how a two-way branch obtains its discriminator.
type PredicateMap struct {
	Base
	filter FilterFunction
}

// FromFilter builds a PredicateMap that shares filter's coefficient and labels.
func FromFilter(filter FilterFunction) *PredicateMap {
	return &PredicateMap{
		Base:   Base{coefficient: filter.Coefficient(), labels: filter.Labels()},
		filter: filter,
	}
}

// Apply implements MapFunction.
func (f *PredicateMap) Apply(t *domain.Traverser) (any, error) {
	return f.filter.Test(t)
}

func (f *PredicateMap) String() string {
	return f.filter.String()
}

// ValuesFlatMap emits the values stored under the given keys, skipping missing ones.
type ValuesFlatMap struct {
	Base
	keys []string
}

// Values builds a ValuesFlatMap.
func Values(keys []string, opts ...Option) *ValuesFlatMap {
	return &ValuesFlatMap{Base: NewBase(opts...), keys: append([]string(nil), keys...)}
}

// Apply implements FlatMapFunction.
func (f *ValuesFlatMap) Apply(t *domain.Traverser) ([]any, error) {
	obj := t.Get()
	keys := f.keys
	if len(keys) == 0 {
		if ph, ok := obj.(domain.PropertyHolder); ok {
			keys = ph.Keys()
		}
	}
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if v, ok := Lookup(obj, k); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *ValuesFlatMap) String() string {
	args := make([]any, len(f.keys))
	for i, k := range f.keys {
		args[i] = k
	}
	return MakeString("values", f, args...)
}
