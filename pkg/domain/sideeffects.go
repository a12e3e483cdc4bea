package domain

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/spf13/cast"
)

// Operator defines how values written to a side-effect key combine.
// Every operator is associative so that scopes can be merged in any grouping.
type Operator string

const (
	// OpSum accumulates numeric values into an int64 counter.
	OpSum Operator = "sum"
	// OpSet keeps the union of distinct values.
	OpSet Operator = "set"
	// OpList appends every value, bulk times.
	OpList Operator = "list"
	// OpGroupCount counts occurrences per value into a map[any]int64.
	OpGroupCount Operator = "group_count"
	// OpAssign keeps the last written value.
	OpAssign Operator = "assign"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpSum, OpSet, OpList, OpGroupCount, OpAssign:
		return true
	}
	return false
}

type sideEffect struct {
	op    Operator
	sum   int64
	items []any
	index map[any]int
	count map[any]int64
	value any
	set   bool

	touched bool
}

func newSideEffect(op Operator) *sideEffect {
	return &sideEffect{op: op}
}

// SideEffects is the arena of named accumulators shared by a traversal run, its
// child traversals and every traverser they spawn. Safe for concurrent use.
type SideEffects struct {
	mu      sync.RWMutex
	entries map[string]*sideEffect
}

// NewSideEffects returns an empty arena.
func NewSideEffects() *SideEffects {
	return &SideEffects{entries: make(map[string]*sideEffect)}
}

// Declare registers key with op. Re-declaring with the same operator is a no-op.
func (s *SideEffects) Declare(key string, op Operator) error {
	if !op.Valid() {
		return &SideEffectError{Key: key, Reason: fmt.Sprintf("unknown operator %q", op), Err: ErrInvalidArgument}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		if e.op != op {
			return &SideEffectError{Key: key, Reason: fmt.Sprintf("already declared as %s", e.op), Err: ErrInvalidArgument}
		}
		return nil
	}
	s.entries[key] = newSideEffect(op)
	return nil
}

// Operator returns the operator declared for key.
func (s *SideEffects) Operator(key string) (Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return e.op, true
}

// Add writes value once to key.
func (s *SideEffects) Add(key string, value any) error {
	return s.AddBulk(key, value, 1)
}

// AddBulk writes value to key as if it had been written bulk times.
func (s *SideEffects) AddBulk(key string, value any, bulk int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return &SideEffectError{Key: key, Reason: "not declared", Err: ErrUndeclaredSideEffect}
	}
	return e.add(key, value, bulk)
}

func (e *sideEffect) add(key string, value any, bulk int64) error {
	e.touched = true
	switch e.op {
	case OpSum:
		n, err := cast.ToInt64E(value)
		if err != nil {
			return &SideEffectError{Key: key, Reason: fmt.Sprintf("cannot sum %T", value), Err: ErrInvalidArgument}
		}
		e.sum += n * bulk
	case OpSet:
		e.addItem(value)
	case OpList:
		for i := int64(0); i < bulk; i++ {
			e.items = append(e.items, value)
		}
	case OpGroupCount:
		if e.count == nil {
			e.count = make(map[any]int64)
		}
		if !Hashable(value) {
			return &SideEffectError{Key: key, Reason: fmt.Sprintf("cannot group by %T", value), Err: ErrInvalidArgument}
		}
		e.count[value] += bulk
	case OpAssign:
		e.value = value
		e.set = true
	}
	return nil
}

func (e *sideEffect) addItem(value any) {
	if Hashable(value) {
		if e.index == nil {
			e.index = make(map[any]int)
		}
		if _, ok := e.index[value]; ok {
			return
		}
		e.index[value] = len(e.items)
		e.items = append(e.items, value)
		return
	}
	for _, it := range e.items {
		if reflect.DeepEqual(it, value) {
			return
		}
	}
	e.items = append(e.items, value)
}

// snapshot returns a copy of the accumulated value in its public representation.
func (e *sideEffect) snapshot() any {
	switch e.op {
	case OpSum:
		return e.sum
	case OpSet, OpList:
		return append([]any{}, e.items...)
	case OpGroupCount:
		out := make(map[any]int64, len(e.count))
		for k, v := range e.count {
			out[k] = v
		}
		return out
	case OpAssign:
		return e.value
	}
	return nil
}

func (e *sideEffect) merge(other *sideEffect) {
	e.touched = e.touched || other.touched
	switch e.op {
	case OpSum:
		e.sum += other.sum
	case OpSet:
		for _, it := range other.items {
			e.addItem(it)
		}
	case OpList:
		e.items = append(e.items, other.items...)
	case OpGroupCount:
		if len(other.count) > 0 && e.count == nil {
			e.count = make(map[any]int64, len(other.count))
		}
		for k, v := range other.count {
			e.count[k] += v
		}
	case OpAssign:
		if other.set {
			e.value = other.value
			e.set = true
		}
	}
}

func (e *sideEffect) clone() *sideEffect {
	c := newSideEffect(e.op)
	c.merge(e)
	return c
}

// Get returns a copy of the value accumulated under key.
func (s *SideEffects) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.snapshot(), true
}

// Keys returns the declared keys in sorted order.
func (s *SideEffects) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge folds other into s. Keys unknown to s are declared with other's operator;
// keys declared with conflicting operators are reported and skipped.
func (s *SideEffects) Merge(other *SideEffects) error {
	if other == nil || other == s {
		return nil
	}
	other.mu.RLock()
	copied := make(map[string]*sideEffect, len(other.entries))
	for k, e := range other.entries {
		copied[k] = e.clone()
	}
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	var conflict error
	for k, e := range copied {
		mine, ok := s.entries[k]
		if !ok {
			s.entries[k] = e
			continue
		}
		if mine.op != e.op {
			conflict = &SideEffectError{Key: k, Reason: fmt.Sprintf("cannot merge %s into %s", e.op, mine.op), Err: ErrInvalidArgument}
			continue
		}
		mine.merge(e)
	}
	return conflict
}

// Fresh returns an arena with the same declarations and no accumulated values.
func (s *SideEffects) Fresh() *SideEffects {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewSideEffects()
	for k, e := range s.entries {
		out.entries[k] = newSideEffect(e.op)
	}
	return out
}

// Snapshot returns a copy of every accumulated value keyed by side-effect name.
func (s *SideEffects) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.entries))
	for k, e := range s.entries {
		out[k] = e.snapshot()
	}
	return out
}

// Entry is a point-in-time view of one side-effect.
type Entry struct {
	Key   string
	Op    Operator
	Value any
	// Empty is true when nothing was ever written to the key.
	Empty bool
}

// Entries returns a view of every declared key, sorted by key.
func (s *SideEffects) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for k, e := range s.entries {
		out = append(out, Entry{Key: k, Op: e.op, Value: e.snapshot(), Empty: !e.touched})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Hashable reports whether v can be used as a map key.
func Hashable(v any) bool {
	if v == nil {
		return true
	}
	return hashable(reflect.ValueOf(v))
}

// hashable inspects dynamic values too: a comparable struct whose interface
// field holds a slice still panics when hashed.
func hashable(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		return rv.IsNil() || hashable(rv.Elem())
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hashable(rv.Index(i)) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashable(rv.Field(i)) {
				return false
			}
		}
	}
	return true
}
