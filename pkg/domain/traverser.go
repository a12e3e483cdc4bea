package domain

import "fmt"

// HaltedStepID is the locator of a traverser that left the pipeline.
// In computer mode the scheduler collects such traversers as results.
const HaltedStepID = "halt"

// Traverser carries an intermediate value through a pipeline together with its
// execution metadata. A traverser is owned by whoever currently holds it; only
// the SideEffects it references are shared.
type Traverser struct {
	value       any
	bulk        int64
	path        *Path
	sideEffects *SideEffects
	stepID      string
}

// NewTraverser creates a traverser with bulk 1 and no path tracking.
func NewTraverser(value any) *Traverser {
	return &Traverser{value: value, bulk: 1}
}

// Get returns the current value.
func (t *Traverser) Get() any {
	return t.value
}

// Set replaces the current value in place.
func (t *Traverser) Set(value any) {
	t.value = value
}

// Bulk returns the multiplicity of the traverser.
func (t *Traverser) Bulk() int64 {
	return t.bulk
}

// SetBulk overrides the multiplicity.
func (t *Traverser) SetBulk(bulk int64) {
	t.bulk = bulk
}

// Path returns the path history or nil when the pipeline does not track paths.
func (t *Traverser) Path() *Path {
	return t.path
}

// TrackPath enables path tracking, seeding the history with the current value.
func (t *Traverser) TrackPath(labels ...string) {
	if t.path == nil {
		t.path = NewPath().Extend(t.value, labels...)
	}
}

// AddLabels labels the head of the path. It is a no-op without path tracking.
func (t *Traverser) AddLabels(labels ...string) {
	if t.path != nil {
		t.path = t.path.AddLabels(labels...)
	}
}

// SideEffects returns the shared side-effect arena of the run.
func (t *Traverser) SideEffects() *SideEffects {
	return t.sideEffects
}

// SetSideEffects binds the traverser to a side-effect arena.
func (t *Traverser) SetSideEffects(se *SideEffects) {
	t.sideEffects = se
}

// StepID returns the locator of the step that should process this traverser next.
func (t *Traverser) StepID() string {
	return t.stepID
}

// SetStepID relabels the traverser for routing by a distributed scheduler.
func (t *Traverser) SetStepID(id string) {
	t.stepID = id
}

// IsHalted reports whether the traverser has left the pipeline.
func (t *Traverser) IsHalted() bool {
	return t.stepID == HaltedStepID
}

// Split derives a traverser holding value. Bulk, side-effects and locator are
// inherited; a tracked path is extended with the new value.
func (t *Traverser) Split(value any) *Traverser {
	next := &Traverser{
		value:       value,
		bulk:        t.bulk,
		sideEffects: t.sideEffects,
		stepID:      t.stepID,
	}
	if t.path != nil {
		next.path = t.path.Extend(value)
	}
	return next
}

// Clone copies the traverser. The path is immutable and can be shared.
func (t *Traverser) Clone() *Traverser {
	c := *t
	return &c
}

func (t *Traverser) String() string {
	if t.bulk == 1 {
		return fmt.Sprint(t.value)
	}
	return fmt.Sprintf("%v[x%d]", t.value, t.bulk)
}
