package function

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// P is a named predicate over a single value.
type P struct {
	name  string
	value any
	test  func(any) bool
}

// Test evaluates the predicate.
func (p P) Test(v any) bool {
	if p.test == nil {
		return false
	}
	return p.test(v)
}

func (p P) String() string {
	return p.name + "(" + fmt.Sprint(p.value) + ")"
}

// Eq matches values equal to want. Numbers compare by value across Go types.
func Eq(want any) P {
	return P{name: "eq", value: want, test: func(v any) bool { return equal(v, want) }}
}

// Neq matches values not equal to want.
func Neq(want any) P {
	return P{name: "neq", value: want, test: func(v any) bool { return !equal(v, want) }}
}

// Gt matches values ordered after bound.
func Gt(bound any) P {
	return P{name: "gt", value: bound, test: func(v any) bool {
		c, ok := compare(v, bound)
		return ok && c > 0
	}}
}

// Gte matches values ordered at or after bound.
func Gte(bound any) P {
	return P{name: "gte", value: bound, test: func(v any) bool {
		c, ok := compare(v, bound)
		return ok && c >= 0
	}}
}

// Lt matches values ordered before bound.
func Lt(bound any) P {
	return P{name: "lt", value: bound, test: func(v any) bool {
		c, ok := compare(v, bound)
		return ok && c < 0
	}}
}

// Lte matches values ordered at or before bound.
func Lte(bound any) P {
	return P{name: "lte", value: bound, test: func(v any) bool {
		c, ok := compare(v, bound)
		return ok && c <= 0
	}}
}

// Within matches values equal to any of values.
func Within(values ...any) P {
	return P{name: "within", value: values, test: func(v any) bool {
		for _, w := range values {
			if equal(v, w) {
				return true
			}
		}
		return false
	}}
}

// Without matches values equal to none of values.
func Without(values ...any) P {
	return P{name: "without", value: values, test: func(v any) bool {
		for _, w := range values {
			if equal(v, w) {
				return false
			}
		}
		return true
	}}
}

// PredicateFor returns the predicate registered under name, for callers that
// build predicates from configuration.
func PredicateFor(name string, args ...any) (P, bool) {
	first := func() any {
		if len(args) == 0 {
			return nil
		}
		return args[0]
	}
	switch strings.ToLower(name) {
	case "eq":
		return Eq(first()), true
	case "neq":
		return Neq(first()), true
	case "gt":
		return Gt(first()), true
	case "gte":
		return Gte(first()), true
	case "lt":
		return Lt(first()), true
	case "lte":
		return Lte(first()), true
	case "within":
		return Within(args...), true
	case "without":
		return Without(args...), true
	}
	return P{}, false
}

func isNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		c, ok := compare(a, b)
		return ok && c == 0
	}
	return reflect.DeepEqual(a, b)
}

func compare(a, b any) (int, bool) {
	if isNumber(a) && isNumber(b) {
		x, errA := cast.ToFloat64E(a)
		y, errB := cast.ToFloat64E(b)
		if errA != nil || errB != nil {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}
