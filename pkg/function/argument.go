package function

import (
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
)

// Argument is an operand that is either a constant or computed from the
// current traverser. Resolution happens on every call; nothing is cached
// across traversers.
type Argument interface {
	Get(t *domain.Traverser) (any, error)
	String() string
}

type constantArgument struct {
	value any
}

// Constant returns an Argument that always resolves to value.
func Constant(value any) Argument {
	return constantArgument{value: value}
}

func (a constantArgument) Get(*domain.Traverser) (any, error) {
	return a.value, nil
}

func (a constantArgument) String() string {
	return fmt.Sprint(a.value)
}

// IsConstant reports whether a resolves without consulting the traverser.
func IsConstant(a Argument) bool {
	_, ok := a.(constantArgument)
	return ok
}

type propertyArgument struct {
	key string
}

// Property returns an Argument that reads key from the current value.
// A missing key resolves to nil.
func Property(key string) Argument {
	return propertyArgument{key: key}
}

func (a propertyArgument) Get(t *domain.Traverser) (any, error) {
	v, _ := Lookup(t.Get(), a.key)
	return v, nil
}

func (a propertyArgument) String() string {
	return "property(" + a.key + ")"
}

type sideEffectArgument struct {
	key string
}

// SideEffect returns an Argument that reads key from the traverser's shared side-effects.
func SideEffect(key string) Argument {
	return sideEffectArgument{key: key}
}

func (a sideEffectArgument) Get(t *domain.Traverser) (any, error) {
	se := t.SideEffects()
	if se == nil {
		return nil, &domain.SideEffectError{Key: a.key, Reason: "traverser has no side-effects", Err: domain.ErrUndeclaredSideEffect}
	}
	v, ok := se.Get(a.key)
	if !ok {
		return nil, &domain.SideEffectError{Key: a.key, Reason: "not declared", Err: domain.ErrUndeclaredSideEffect}
	}
	return v, nil
}

func (a sideEffectArgument) String() string {
	return "sideEffect(" + a.key + ")"
}

type deferredArgument struct {
	name string
	fn   func(*domain.Traverser) (any, error)
}

// Deferred wraps fn as an Argument. fn must not mutate the traverser.
func Deferred(name string, fn func(*domain.Traverser) (any, error)) Argument {
	return deferredArgument{name: name, fn: fn}
}

func (a deferredArgument) Get(t *domain.Traverser) (any, error) {
	return a.fn(t)
}

func (a deferredArgument) String() string {
	return a.name
}
