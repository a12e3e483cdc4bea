package domain

import (
	"errors"
	"fmt"
)

// ErrNoSuchElement is returned when pulling past the last available traverser.
// It is an expected signal, not a failure.
var ErrNoSuchElement = errors.New("no such element")

// ErrTraversalLocked is returned when a structural edit is attempted on a running traversal.
var ErrTraversalLocked = errors.New("the traversal strategies are complete and the traversal can no longer be modulated")

// ErrStepNotFound is returned when a step locator does not name a step of the traversal.
var ErrStepNotFound = errors.New("step not found")

// ErrUndeclaredSideEffect is returned when writing to a side-effect key that was never declared.
var ErrUndeclaredSideEffect = errors.New("undeclared side-effect")

// ErrInvalidArgument is returned when a function or step is built with unusable operands.
var ErrInvalidArgument = errors.New("invalid argument")

// StateError reports an operation that is illegal in the traversal's current state.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s (state %s)", e.Op, ErrTraversalLocked.Error(), e.State)
}

// Unwrap allows errors.Is(err, ErrTraversalLocked).
func (e *StateError) Unwrap() error {
	return ErrTraversalLocked
}

// SideEffectError reports a misuse of a side-effect key.
type SideEffectError struct {
	Key    string
	Reason string
	Err    error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side-effect %q: %s", e.Key, e.Reason)
}

func (e *SideEffectError) Unwrap() error {
	return e.Err
}
