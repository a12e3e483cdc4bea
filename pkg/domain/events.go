package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventLock      EventType = "lock"
	EventEmit      EventType = "emit"
	EventSuperstep EventType = "superstep"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// LockEvent is fired when a traversal leaves the building state.
type LockEvent struct {
	EventBase
	Steps int    `json:"steps"`
	Mode  string `json:"mode"`
}

// EmitEvent is fired for every traverser a root traversal hands to its caller.
type EmitEvent struct {
	EventBase
	StepID string `json:"step_id"`
	Step   string `json:"step"`
	Bulk   int64  `json:"bulk"`
}

// SuperstepEvent is fired by the computer runner at every barrier.
type SuperstepEvent struct {
	EventBase
	JobID     string        `json:"job_id"`
	Superstep int           `json:"superstep"`
	Messages  int           `json:"messages"`
	Halted    int           `json:"halted"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks observe execution; they must not mutate the traversers they are shown.
type LifecycleHooks struct {
	OnLock      func(*LockEvent)
	OnEmit      func(*EmitEvent)
	OnSuperstep func(*SuperstepEvent)
}

// Lock fires OnLock if set.
func (h LifecycleHooks) Lock(e *LockEvent) {
	if h.OnLock != nil {
		e.Type = EventLock
		h.OnLock(e)
	}
}

// Emit fires OnEmit if set.
func (h LifecycleHooks) Emit(e *EmitEvent) {
	if h.OnEmit != nil {
		e.Type = EventEmit
		h.OnEmit(e)
	}
}

// Superstep fires OnSuperstep if set.
func (h LifecycleHooks) Superstep(e *SuperstepEvent) {
	if h.OnSuperstep != nil {
		e.Type = EventSuperstep
		h.OnSuperstep(e)
	}
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLock:      chain(h.OnLock, other.OnLock),
		OnEmit:      chain(h.OnEmit, other.OnEmit),
		OnSuperstep: chain(h.OnSuperstep, other.OnSuperstep),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
