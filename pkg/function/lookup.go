package function

import (
	"fmt"
	"reflect"

	"github.com/aretw0/vine/pkg/domain"
)

// Lookup reads key from a map-like object: a domain.PropertyHolder or any Go map
// whose key type key converts to. Other values have no keys.
func Lookup(obj any, key any) (any, bool) {
	switch o := obj.(type) {
	case nil:
		return nil, false
	case domain.PropertyHolder:
		k, ok := key.(string)
		if !ok {
			k = fmt.Sprint(key)
		}
		return o.Property(k)
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, false
		}
		v, found := o[k]
		return v, found
	case map[any]any:
		if !domain.Hashable(key) {
			return nil, false
		}
		v, found := o[key]
		return v, found
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Map || !domain.Hashable(key) {
		return nil, false
	}
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		return nil, false
	}
	kt := rv.Type().Key()
	if !kv.Type().AssignableTo(kt) {
		var ok bool
		if kv, ok = convertKey(kv, kt); !ok {
			return nil, false
		}
	}
	v := rv.MapIndex(kv)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// convertKey converts k to t when both have the same kind, or both are numbers
// and the value survives the conversion. An int64 key finds an entry of a
// map[int]; 2.5 does not.
func convertKey(k reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !k.Type().ConvertibleTo(t) {
		return reflect.Value{}, false
	}
	if k.Kind() != t.Kind() {
		if !isNumberKind(k.Kind()) || !isNumberKind(t.Kind()) {
			return reflect.Value{}, false
		}
		if isUnsignedKind(t.Kind()) && k.CanInt() && k.Int() < 0 {
			return reflect.Value{}, false
		}
	}
	c := k.Convert(t)
	if c.Convert(k.Type()).Interface() != k.Interface() {
		return reflect.Value{}, false
	}
	return c, true
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return isUnsignedKind(k)
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
