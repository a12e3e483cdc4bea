package function

import (
	"strings"

	"github.com/aretw0/vine/pkg/domain"
)

// HasKeyFilter passes traversers whose map-like value contains key.
type HasKeyFilter struct {
	Base
	key Argument
}

// HasKey builds a HasKeyFilter.
func HasKey(key Argument, opts ...Option) *HasKeyFilter {
	return &HasKeyFilter{Base: NewBase(opts...), key: key}
}

// Test implements FilterFunction.
func (f *HasKeyFilter) Test(t *domain.Traverser) (bool, error) {
	k, err := f.key.Get(t)
	if err != nil {
		return false, err
	}
	_, ok := Lookup(t.Get(), k)
	return ok, nil
}

func (f *HasKeyFilter) String() string {
	return MakeString("hasKey", f, f.key)
}

// HasFilter passes traversers whose value has a key satisfying a predicate.
type HasFilter struct {
	Base
	key       Argument
	predicate P
}

// Has builds a HasFilter.
func Has(key Argument, predicate P, opts ...Option) *HasFilter {
	return &HasFilter{Base: NewBase(opts...), key: key, predicate: predicate}
}

// Test implements FilterFunction.
func (f *HasFilter) Test(t *domain.Traverser) (bool, error) {
	k, err := f.key.Get(t)
	if err != nil {
		return false, err
	}
	v, ok := Lookup(t.Get(), k)
	if !ok {
		return false, nil
	}
	return f.predicate.Test(v), nil
}

func (f *HasFilter) String() string {
	return MakeString("has", f, f.key, f.predicate)
}

// HasLabelFilter passes graph elements carrying one of the labels.
type HasLabelFilter struct {
	Base
	labels []string
}

// HasLabel builds a HasLabelFilter.
func HasLabel(labels []string, opts ...Option) *HasLabelFilter {
	return &HasLabelFilter{Base: NewBase(opts...), labels: append([]string(nil), labels...)}
}

// Test implements FilterFunction.
func (f *HasLabelFilter) Test(t *domain.Traverser) (bool, error) {
	e, ok := t.Get().(domain.Element)
	if !ok {
		return false, nil
	}
	for _, l := range f.labels {
		if e.ElementLabel() == l {
			return true, nil
		}
	}
	return false, nil
}

func (f *HasLabelFilter) String() string {
	return MakeString("hasLabel", f, strings.Join(f.labels, ","))
}

// IsFilter passes traversers whose value satisfies a predicate.
type IsFilter struct {
	Base
	predicate P
}

// Is builds an IsFilter.
func Is(predicate P, opts ...Option) *IsFilter {
	return &IsFilter{Base: NewBase(opts...), predicate: predicate}
}

// Test implements FilterFunction.
func (f *IsFilter) Test(t *domain.Traverser) (bool, error) {
	return f.predicate.Test(t.Get()), nil
}

func (f *IsFilter) String() string {
	return MakeString("is", f, f.predicate)
}

// LambdaFilter adapts a Go predicate over values.
type LambdaFilter struct {
	Base
	name string
	fn   func(any) (bool, error)
}

// FilterLambda wraps fn as a FilterFunction rendered as name.
func FilterLambda(name string, fn func(any) (bool, error), opts ...Option) *LambdaFilter {
	return &LambdaFilter{Base: NewBase(opts...), name: name, fn: fn}
}

// Test implements FilterFunction.
func (f *LambdaFilter) Test(t *domain.Traverser) (bool, error) {
	return f.fn(t.Get())
}

func (f *LambdaFilter) String() string {
	return MakeString(f.name, f)
}
