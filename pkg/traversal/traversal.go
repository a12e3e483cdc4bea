package traversal

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

// State is the lifecycle phase of a Traversal.
type State int

const (
	// Building accepts structural changes.
	Building State = iota
	// Running has been locked by its first pull.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "building"
}

// Traversal is an ordered pipeline of steps. A root traversal owns its
// configuration; a child traversal inherits mode, graph, logger and hooks from
// the step that holds it and shares that step's side-effect arena.
type Traversal struct {
	steps       []Step
	state       State
	holder      Step
	sideEffects *domain.SideEffects

	mode   domain.Mode
	graph  ports.Graph
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	index map[string]Step

	pending     *domain.Traverser
	pendingBulk int64

	// batch counts AddStarts calls; reducing barriers re-arm when it moves.
	batch uint64
}

// New creates an empty root traversal.
func New(opts ...Option) *Traversal {
	t := &Traversal{
		sideEffects: domain.NewSideEffects(),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewChild creates an empty traversal meant to be held by a step.
func NewChild() *Traversal {
	return New()
}

func (t *Traversal) State() State { return t.state }

// Locked reports whether the traversal has been locked for execution.
func (t *Traversal) Locked() bool { return t.state == Running }

// Steps returns a copy of the step list.
func (t *Traversal) Steps() []Step { return append([]Step(nil), t.steps...) }

// StartStep returns the first step, or the empty step.
func (t *Traversal) StartStep() Step {
	if len(t.steps) == 0 {
		return emptyStep
	}
	return t.steps[0]
}

// EndStep returns the last step, or the empty step.
func (t *Traversal) EndStep() Step {
	if len(t.steps) == 0 {
		return emptyStep
	}
	return t.steps[len(t.steps)-1]
}

// Holder returns the step holding this traversal, nil for a root.
func (t *Traversal) Holder() Step { return t.holder }

// Parent returns the traversal of the holding step.
func (t *Traversal) Parent() *Traversal {
	if t.holder == nil {
		return nil
	}
	return t.holder.Traversal()
}

// Root walks up the holder chain.
func (t *Traversal) Root() *Traversal {
	r := t
	for p := r.Parent(); p != nil; p = r.Parent() {
		r = p
	}
	return r
}

func (t *Traversal) Mode() domain.Mode {
	if p := t.Parent(); p != nil {
		return p.Mode()
	}
	return t.mode
}

// SetMode switches the execution algorithm. Only allowed while Building.
func (t *Traversal) SetMode(m domain.Mode) error {
	if t.state == Running {
		return &domain.StateError{Op: "SetMode", State: t.state.String()}
	}
	t.mode = m
	return nil
}

func (t *Traversal) Graph() ports.Graph {
	if p := t.Parent(); p != nil {
		return p.Graph()
	}
	return t.graph
}

func (t *Traversal) Logger() *slog.Logger {
	if p := t.Parent(); p != nil {
		return p.Logger()
	}
	return t.logger
}

func (t *Traversal) Hooks() domain.LifecycleHooks {
	if p := t.Parent(); p != nil {
		return p.Hooks()
	}
	return t.hooks
}

func (t *Traversal) SideEffects() *domain.SideEffects { return t.sideEffects }

// Batch identifies the latest group of starts injected through AddStarts.
func (t *Traversal) Batch() uint64 { return t.batch }

// AddStep appends s.
func (t *Traversal) AddStep(s Step) error {
	return t.InsertStep(len(t.steps), s)
}

// InsertStep places s at index, shifting later steps right.
func (t *Traversal) InsertStep(index int, s Step) error {
	if t.state == Running {
		return &domain.StateError{Op: "AddStep", State: t.state.String()}
	}
	if index < 0 || index > len(t.steps) {
		return fmt.Errorf("%w: step index %d out of range [0,%d]", domain.ErrInvalidArgument, index, len(t.steps))
	}
	if a, ok := s.(Attacher); ok {
		if err := a.Attach(t); err != nil {
			s.SetTraversal(nil)
			return fmt.Errorf("attaching %s: %w", s, err)
		}
	} else {
		s.SetTraversal(t)
	}
	if s.ID() == "" {
		s.SetID(strconv.Itoa(len(t.steps)))
	}
	t.steps = append(t.steps, nil)
	copy(t.steps[index+1:], t.steps[index:])
	t.steps[index] = s
	t.relink()
	return nil
}

// RemoveStep removes the step at index.
func (t *Traversal) RemoveStep(index int) error {
	if t.state == Running {
		return &domain.StateError{Op: "RemoveStep", State: t.state.String()}
	}
	if index < 0 || index >= len(t.steps) {
		return fmt.Errorf("%w: step index %d out of range [0,%d)", domain.ErrInvalidArgument, index, len(t.steps))
	}
	removed := t.steps[index]
	t.steps = append(t.steps[:index], t.steps[index+1:]...)
	removed.SetPreviousStep(emptyStep)
	removed.SetNextStep(emptyStep)
	t.relink()
	return nil
}

func (t *Traversal) relink() {
	for i, s := range t.steps {
		if i == 0 {
			s.SetPreviousStep(emptyStep)
		} else {
			s.SetPreviousStep(t.steps[i-1])
		}
		if i == len(t.steps)-1 {
			s.SetNextStep(emptyStep)
		} else {
			s.SetNextStep(t.steps[i+1])
		}
	}
}

// Adopt makes t a child of holder: it records the holder, folds its own
// side-effect declarations and values into the holder's arena and then shares
// that arena. Mode, graph, logger and hooks are resolved through the holder
// from then on.
func (t *Traversal) Adopt(holder Step) error {
	t.SetHolder(holder)
	parent := holder.Traversal()
	if parent == nil {
		return nil
	}
	if err := parent.SideEffects().Merge(t.sideEffects); err != nil {
		return fmt.Errorf("adopting child of %s: %w", holder, err)
	}
	t.shareSideEffects(parent.SideEffects())
	return nil
}

// SetHolder records the step holding t without touching side-effects.
func (t *Traversal) SetHolder(holder Step) {
	t.holder = holder
}

func (t *Traversal) shareSideEffects(se *domain.SideEffects) {
	t.sideEffects = se
	for _, s := range t.steps {
		if h, ok := s.(Holder); ok {
			for _, c := range h.Children() {
				c.shareSideEffects(se)
			}
		}
	}
}

// Requirements is the union of the requirements of every step, children included.
func (t *Traversal) Requirements() domain.Requirements {
	out := domain.NewRequirements()
	for _, s := range t.steps {
		out = out.Union(s.Requirements())
	}
	return out
}

// Walk visits every step depth first, descending into child traversals.
func (t *Traversal) Walk(fn func(Step)) {
	for _, s := range t.steps {
		fn(s)
		if h, ok := s.(Holder); ok {
			for _, c := range h.Children() {
				c.Walk(fn)
			}
		}
	}
}

// StepByID finds a step anywhere in the tree of the root traversal.
func (t *Traversal) StepByID(id string) (Step, error) {
	root := t.Root()
	if root.index != nil {
		if s, ok := root.index[id]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %q", domain.ErrStepNotFound, id)
	}
	var found Step
	root.Walk(func(s Step) {
		if found == nil && s.ID() == id {
			found = s
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrStepNotFound, id)
	}
	return found, nil
}

// Lock moves the traversal to Running. The root assigns tree-wide step ids first.
// Locking is idempotent.
func (t *Traversal) Lock() {
	if t.state == Running {
		return
	}
	if t.holder == nil {
		t.index = make(map[string]Step)
		t.assignIDs("", t.index)
	}
	t.lockTree()
	if t.holder == nil {
		t.Logger().Debug("traversal locked", "steps", len(t.index), "mode", t.Mode())
		t.Hooks().Lock(&domain.LockEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLock},
			Steps:     len(t.index),
			Mode:      t.Mode().String(),
		})
	}
}

func (t *Traversal) lockTree() {
	t.state = Running
	for _, s := range t.steps {
		if h, ok := s.(Holder); ok {
			for _, c := range h.Children() {
				c.lockTree()
			}
		}
	}
}

func (t *Traversal) assignIDs(prefix string, index map[string]Step) {
	for i, s := range t.steps {
		id := prefix + strconv.Itoa(i)
		s.SetID(id)
		index[id] = s
		if h, ok := s.(Holder); ok {
			for j, c := range h.Children() {
				c.assignIDs(id+"."+strconv.Itoa(j)+".", index)
			}
		}
	}
}

// AddStarts injects traversers at the start step, binding them to this
// traversal's side-effects and path tracking when they carry none.
func (t *Traversal) AddStarts(ts ...*domain.Traverser) {
	if len(ts) == 0 {
		return
	}
	t.batch++
	tracks := t.Root().Requirements().TracksPath()
	start := t.StartStep()
	for _, tr := range ts {
		t.bind(tr, tracks)
		start.AddStart(tr)
	}
}

// Generate creates a bulk 1 traverser for value bound the same way AddStarts
// binds injected traversers.
func (t *Traversal) Generate(value any) *domain.Traverser {
	tr := domain.NewTraverser(value)
	t.bind(tr, t.Root().Requirements().TracksPath())
	return tr
}

func (t *Traversal) bind(tr *domain.Traverser, tracks bool) {
	if tr.SideEffects() == nil {
		tr.SetSideEffects(t.sideEffects)
	}
	if tracks && tr.Path() == nil {
		tr.TrackPath()
	}
}

// AddStartValues wraps each value in a traverser of bulk 1 and injects it.
func (t *Traversal) AddStartValues(values ...any) {
	ts := make([]*domain.Traverser, len(values))
	for i, v := range values {
		ts[i] = domain.NewTraverser(v)
	}
	t.AddStarts(ts...)
}

// HasNext locks the traversal and reports whether another traverser is available.
func (t *Traversal) HasNext() (bool, error) {
	t.Lock()
	if t.pendingBulk > 0 {
		return true, nil
	}
	return t.EndStep().HasNext()
}

// Next returns the next traverser with its full bulk.
func (t *Traversal) Next() (*domain.Traverser, error) {
	t.Lock()
	if t.pendingBulk > 0 {
		tr := t.pending.Clone()
		tr.SetBulk(t.pendingBulk)
		t.pending, t.pendingBulk = nil, 0
		return tr, nil
	}
	tr, err := t.EndStep().Next()
	if err != nil {
		return nil, err
	}
	t.emitted(tr)
	return tr, nil
}

// NextValue returns the next value, repeating a traverser's value once per unit of bulk.
func (t *Traversal) NextValue() (any, error) {
	t.Lock()
	if t.pendingBulk == 0 {
		tr, err := t.EndStep().Next()
		if err != nil {
			return nil, err
		}
		t.emitted(tr)
		t.pending, t.pendingBulk = tr, tr.Bulk()
	}
	v := t.pending.Get()
	t.pendingBulk--
	if t.pendingBulk == 0 {
		t.pending = nil
	}
	return v, nil
}

func (t *Traversal) emitted(tr *domain.Traverser) {
	step := t.EndStep()
	t.Hooks().Emit(&domain.EmitEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventEmit},
		StepID:    step.ID(),
		Step:      step.String(),
		Bulk:      tr.Bulk(),
	})
}

// ToList drains the remaining values.
func (t *Traversal) ToList() ([]any, error) {
	var out []any
	for {
		v, err := t.NextValue()
		if errors.Is(err, domain.ErrNoSuchElement) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// ToTraversers drains the remaining traversers.
func (t *Traversal) ToTraversers() ([]*domain.Traverser, error) {
	t.Lock()
	return Drain(t)
}

// ForEachRemaining calls fn for every remaining value until fn returns an error.
func (t *Traversal) ForEachRemaining(fn func(any) error) error {
	for {
		v, err := t.NextValue()
		if errors.Is(err, domain.ErrNoSuchElement) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// Iterate drains the traversal for its side-effects.
func (t *Traversal) Iterate() error {
	for {
		_, err := t.Next()
		if errors.Is(err, domain.ErrNoSuchElement) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// All ranges over the remaining values. Iteration stops after the first error.
func (t *Traversal) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for {
			v, err := t.NextValue()
			if errors.Is(err, domain.ErrNoSuchElement) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Reset clears every step's pending input and output. The traversal stays
// locked and accumulated side-effects are kept.
func (t *Traversal) Reset() {
	for _, s := range t.steps {
		s.Reset()
	}
	t.pending, t.pendingBulk = nil, 0
}

// Clone returns an unlocked copy with cloned steps and a fresh side-effect arena
// carrying the same declarations. Step ids are preserved.
func (t *Traversal) Clone() *Traversal {
	c := &Traversal{
		state:       Building,
		sideEffects: t.sideEffects.Fresh(),
		mode:        t.mode,
		graph:       t.graph,
		logger:      t.logger,
		hooks:       t.hooks,
		steps:       make([]Step, 0, len(t.steps)),
	}
	for _, s := range t.steps {
		c.steps = append(c.steps, s.Clone())
	}
	for _, s := range c.steps {
		s.SetTraversal(c)
	}
	c.relink()
	return c
}

func (t *Traversal) String() string {
	parts := make([]string, len(t.steps))
	for i, s := range t.steps {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
