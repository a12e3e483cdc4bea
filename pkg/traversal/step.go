package traversal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/vine/pkg/domain"
)

// Step is one stage of a traversal pipeline.
type Step interface {
	Iterator

	ID() string
	SetID(id string)
	Labels() []string
	AddLabel(label string)

	Traversal() *Traversal
	// SetTraversal attaches the step to t. Steps holding child traversals
	// re-adopt them here.
	SetTraversal(t *Traversal)

	PreviousStep() Step
	SetPreviousStep(s Step)
	NextStep() Step
	SetNextStep(s Step)

	// AddStart queues t as input ahead of anything pulled from the previous step.
	AddStart(t *domain.Traverser)
	AddStarts(ts ...*domain.Traverser)

	// ProcessNextStart computes the next output. It returns domain.ErrNoSuchElement
	// when the input is exhausted. A nil traverser is skipped.
	ProcessNextStart() (*domain.Traverser, error)

	Requirements() domain.Requirements
	Reset()
	// Clone returns a detached copy with the same id and labels and no pending input.
	Clone() Step
	String() string
}

// Holder is a step that owns child traversals.
type Holder interface {
	Step
	Children() []*Traversal
}

// Attacher is implemented by steps whose attachment to a traversal can fail,
// such as steps declaring side-effects that clash with ones already declared.
// InsertStep calls Attach in place of SetTraversal and rejects the step on error.
type Attacher interface {
	Step
	Attach(t *Traversal) error
}

// Barrier marks steps that must see all their input before emitting.
// The computer runner holds messages for barriers until upstream quiesces.
type Barrier interface {
	Step
	Barrier()
}

// selfRouting is implemented by steps that assign the next step locator themselves.
type selfRouting interface {
	routesSelf() bool
}

// StepBase carries the state shared by all steps: identity, labels, links and the
// expandable input queue. Concrete steps embed it and call Init with themselves.
type StepBase struct {
	self      Step
	name      string
	id        string
	labels    []string
	traversal *Traversal
	prev      Step
	next      Step

	starts  []*domain.Traverser
	head    int
	nextEnd *domain.Traverser
}

// Init binds the base to the concrete step that embeds it.
func (b *StepBase) Init(self Step, name string) {
	b.self = self
	b.name = name
	b.prev = emptyStep
	b.next = emptyStep
}

// CloneFor copies identity and labels into a fresh base bound to self.
func (b *StepBase) CloneFor(self Step) StepBase {
	c := StepBase{
		self:   self,
		name:   b.name,
		id:     b.id,
		labels: append([]string(nil), b.labels...),
		prev:   emptyStep,
		next:   emptyStep,
	}
	return c
}

func (b *StepBase) Name() string { return b.name }
func (b *StepBase) ID() string { return b.id }
func (b *StepBase) SetID(id string) { b.id = id }
func (b *StepBase) Labels() []string { return b.labels }
func (b *StepBase) Traversal() *Traversal { return b.traversal }
func (b *StepBase) PreviousStep() Step { return b.prev }
func (b *StepBase) NextStep() Step { return b.next }
func (b *StepBase) SetTraversal(t *Traversal) { b.traversal = t }

func (b *StepBase) AddLabel(label string) {
	for _, l := range b.labels {
		if l == label {
			return
		}
	}
	b.labels = append(b.labels, label)
}

func (b *StepBase) SetPreviousStep(s Step) {
	if s == nil {
		s = emptyStep
	}
	b.prev = s
}

func (b *StepBase) SetNextStep(s Step) {
	if s == nil {
		s = emptyStep
	}
	b.next = s
}

func (b *StepBase) AddStart(t *domain.Traverser) {
	b.starts = append(b.starts, t)
}

func (b *StepBase) AddStarts(ts ...*domain.Traverser) {
	b.starts = append(b.starts, ts...)
}

// NextStart returns the next input traverser: queued starts first, then the
// previous step. In computer mode only queued starts are consumed; the runner
// delivers every traverser to the step it is addressed to.
func (b *StepBase) NextStart() (*domain.Traverser, error) {
	if b.head < len(b.starts) {
		t := b.starts[b.head]
		b.starts[b.head] = nil
		b.head++
		if b.head == len(b.starts) {
			b.starts = b.starts[:0]
			b.head = 0
		}
		return t, nil
	}
	if b.isComputer() {
		return nil, domain.ErrNoSuchElement
	}
	return b.prev.Next()
}

// Queued returns the number of added starts not yet consumed.
func (b *StepBase) Queued() int {
	return len(b.starts) - b.head
}

// HasStarts reports whether any input remains.
func (b *StepBase) HasStarts() (bool, error) {
	if b.head < len(b.starts) {
		return true, nil
	}
	if b.isComputer() {
		return false, nil
	}
	return b.prev.HasNext()
}

func (b *StepBase) isComputer() bool {
	return b.traversal != nil && b.traversal.Mode() == domain.ModeComputer
}

func (b *StepBase) HasNext() (bool, error) {
	if b.nextEnd != nil {
		return true, nil
	}
	t, err := b.pull()
	if errors.Is(err, domain.ErrNoSuchElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	b.nextEnd = t
	return true, nil
}

func (b *StepBase) Next() (*domain.Traverser, error) {
	if b.nextEnd != nil {
		t := b.nextEnd
		b.nextEnd = nil
		return t, nil
	}
	return b.pull()
}

func (b *StepBase) pull() (*domain.Traverser, error) {
	for {
		t, err := b.self.ProcessNextStart()
		if err != nil {
			return nil, err
		}
		if t == nil || t.Bulk() <= 0 {
			continue
		}
		b.prepare(t)
		return t, nil
	}
}

// prepare applies step labels to the traverser path and, in computer mode,
// points the traverser at the next step.
func (b *StepBase) prepare(t *domain.Traverser) {
	if len(b.labels) > 0 {
		t.AddLabels(b.labels...)
	}
	if !b.isComputer() {
		return
	}
	if r, ok := b.self.(selfRouting); ok && r.routesSelf() {
		return
	}
	t.SetStepID(locatorOf(b.next))
}

// ProcessNextStart on the base passes input through unchanged.
func (b *StepBase) ProcessNextStart() (*domain.Traverser, error) {
	return b.NextStart()
}

func (b *StepBase) Requirements() domain.Requirements {
	return domain.NewRequirements()
}

// Reset drops queued input and any peeked output.
func (b *StepBase) Reset() {
	clear(b.starts)
	b.starts = b.starts[:0]
	b.head = 0
	b.nextEnd = nil
}

func (b *StepBase) String() string {
	return MakeStepString(b.self)
}

// locatorOf returns the routing id for s, or the halted locator for the empty step.
func locatorOf(s Step) string {
	if s == nil || s == Step(emptyStep) {
		return domain.HaltedStepID
	}
	return s.ID()
}

// MakeStepString renders a step as Name(arg,arg)@[label,label].
func MakeStepString(s Step, args ...any) string {
	var sb strings.Builder
	if n, ok := s.(interface{ Name() string }); ok {
		sb.WriteString(n.Name())
	} else {
		sb.WriteString(fmt.Sprintf("%T", s))
	}
	if len(args) > 0 {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		sb.WriteString("(" + strings.Join(parts, ",") + ")")
	}
	if labels := s.Labels(); len(labels) > 0 {
		sb.WriteString("@[" + strings.Join(labels, ",") + "]")
	}
	return sb.String()
}

// IsBarrier reports whether s must see its whole input before emitting.
// A Barrier may opt out dynamically with an IsBarrier() bool method.
func IsBarrier(s Step) bool {
	if _, ok := s.(Barrier); !ok {
		return false
	}
	if d, ok := s.(interface{ IsBarrier() bool }); ok {
		return d.IsBarrier()
	}
	return true
}
