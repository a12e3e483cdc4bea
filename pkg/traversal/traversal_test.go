package traversal_test

import (
	"errors"
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addStep is a minimal custom step: it adds n to integer values.
type addStep struct {
	traversal.StepBase
	n int
}

func newAdd(n int) *addStep {
	s := &addStep{n: n}
	s.Init(s, "addStep")
	return s
}

func (s *addStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	return t.Split(t.Get().(int) + s.n), nil
}

func (s *addStep) Clone() traversal.Step {
	c := &addStep{n: s.n}
	c.StepBase = s.CloneFor(c)
	return c
}

// failStep returns its error for every input.
type failStep struct {
	traversal.StepBase
	err error
}

func newFail(err error) *failStep {
	s := &failStep{err: err}
	s.Init(s, "failStep")
	return s
}

func (s *failStep) ProcessNextStart() (*domain.Traverser, error) {
	if _, err := s.NextStart(); err != nil {
		return nil, err
	}
	return nil, s.err
}

func (s *failStep) Clone() traversal.Step {
	c := &failStep{err: s.err}
	c.StepBase = s.CloneFor(c)
	return c
}

func build(t *testing.T, steps ...traversal.Step) *traversal.Traversal {
	t.Helper()
	tr := traversal.New()
	for _, s := range steps {
		require.NoError(t, tr.AddStep(s))
	}
	return tr
}

func TestTraversal_PullsThroughSteps(t *testing.T) {
	tr := build(t, newAdd(1), newAdd(10))
	tr.AddStartValues(1, 2, 3)

	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{12, 13, 14}, out)

	_, err = tr.Next()
	assert.ErrorIs(t, err, domain.ErrNoSuchElement)
	ok, err := tr.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTraversal_EmptyPipeline(t *testing.T) {
	tr := traversal.New()
	tr.AddStartValues(1)
	ok, err := tr.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.IsType(t, &traversal.EmptyStep{}, tr.StartStep())
	assert.Same(t, tr.StartStep(), tr.EndStep())
}

func TestTraversal_LocksOnFirstPull(t *testing.T) {
	tr := build(t, newAdd(1))
	tr.AddStartValues(1, 2)
	assert.False(t, tr.Locked())

	ok, err := tr.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tr.Locked())

	err = tr.AddStep(newAdd(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTraversalLocked)
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "AddStep", stateErr.Op)
	assert.Equal(t, "the traversal strategies are complete and the traversal can no longer be modulated", domain.ErrTraversalLocked.Error())

	assert.ErrorIs(t, tr.InsertStep(0, newAdd(1)), domain.ErrTraversalLocked)
	assert.ErrorIs(t, tr.RemoveStep(0), domain.ErrTraversalLocked)
	assert.ErrorIs(t, tr.SetMode(domain.ModeComputer), domain.ErrTraversalLocked)

	// iteration is unaffected by the rejected mutation
	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{2, 3}, out)
	assert.Len(t, tr.Steps(), 1)

	// starts are still accepted after lock
	tr.AddStartValues(10)
	v, err := tr.NextValue()
	require.NoError(t, err)
	assert.Equal(t, 11, v)
}

func TestTraversal_StructuralEdits(t *testing.T) {
	a, b, c := newAdd(1), newAdd(2), newAdd(3)
	tr := build(t, a, c)
	require.NoError(t, tr.InsertStep(1, b))
	assert.Equal(t, []traversal.Step{a, b, c}, tr.Steps())
	assert.Same(t, b, a.NextStep())
	assert.Same(t, a, b.PreviousStep())
	assert.Same(t, tr, b.Traversal())

	require.NoError(t, tr.RemoveStep(0))
	assert.Same(t, b, tr.StartStep())
	assert.IsType(t, &traversal.EmptyStep{}, b.PreviousStep())
	assert.ErrorIs(t, tr.RemoveStep(5), domain.ErrInvalidArgument)
	assert.ErrorIs(t, tr.InsertStep(-1, newAdd(0)), domain.ErrInvalidArgument)

	steps := tr.Steps()
	steps[0] = nil
	assert.Same(t, b, tr.StartStep(), "Steps returns a copy")

	tr.AddStartValues(0)
	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{5}, out)
}

func TestTraversal_BulkExpansion(t *testing.T) {
	tr := build(t, newAdd(0))
	start := domain.NewTraverser(7)
	start.SetBulk(3)
	tr.AddStarts(start)

	first, err := tr.NextValue()
	require.NoError(t, err)
	assert.Equal(t, 7, first)

	// the remaining bulk is still pending and Next hands it over in one traverser
	rest, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), rest.Bulk())

	tr.AddStarts(start.Clone())
	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{7, 7, 7}, out)
}

func TestTraversal_DropsEmptyBulk(t *testing.T) {
	tr := build(t, newAdd(0))
	zero := domain.NewTraverser(1)
	zero.SetBulk(0)
	tr.AddStarts(zero, domain.NewTraverser(2))

	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{2}, out)
}

func TestTraversal_UserErrorsPropagateUnmodified(t *testing.T) {
	boom := errors.New("boom")
	tr := build(t, newAdd(1), newFail(boom))
	tr.AddStartValues(1)

	_, err := tr.HasNext()
	assert.Same(t, boom, err)
}

func TestTraversal_Reset(t *testing.T) {
	tr := build(t, newAdd(1))
	tr.AddStartValues(1, 2, 3)

	v, err := tr.NextValue()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	ok, err := tr.HasNext()
	require.NoError(t, err)
	require.True(t, ok)

	tr.Reset()
	ok, err = tr.HasNext()
	require.NoError(t, err)
	assert.False(t, ok, "reset drops peeked and queued input")
	assert.True(t, tr.Locked(), "reset does not unlock")

	tr.AddStartValues(100)
	out, err := tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{101}, out)

	tr.Reset()
	tr.Reset()
	ok, err = tr.HasNext()
	require.NoError(t, err)
	assert.False(t, ok, "reset is idempotent")
}

func TestTraversal_CloneIsIndependent(t *testing.T) {
	tr := build(t, newAdd(1))
	require.NoError(t, tr.SideEffects().Declare("seen", domain.OpList))
	tr.AddStartValues(1)
	_, err := tr.HasNext()
	require.NoError(t, err)

	c := tr.Clone()
	assert.False(t, c.Locked())
	assert.NotSame(t, tr.StartStep(), c.StartStep())
	assert.Equal(t, tr.StartStep().ID(), c.StartStep().ID())
	assert.NotSame(t, tr.SideEffects(), c.SideEffects())
	assert.Equal(t, []string{"seen"}, c.SideEffects().Keys())

	c.AddStartValues(41)
	out, err := c.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{42}, out, "clone has none of the original's pending input")

	out, err = tr.ToList()
	require.NoError(t, err)
	assert.Equal(t, []any{2}, out)
}

func TestTraversal_StepIDsAndHooks(t *testing.T) {
	var locks []*domain.LockEvent
	var emits []*domain.EmitEvent
	tr := traversal.New(traversal.WithHooks(domain.LifecycleHooks{
		OnLock: func(e *domain.LockEvent) { locks = append(locks, e) },
		OnEmit: func(e *domain.EmitEvent) { emits = append(emits, e) },
	}))
	a, b := newAdd(1), newAdd(2)
	require.NoError(t, tr.AddStep(a))
	require.NoError(t, tr.AddStep(b))
	tr.AddStartValues(1, 2)

	require.NoError(t, tr.Iterate())
	require.Len(t, locks, 1)
	assert.Equal(t, 2, locks[0].Steps)
	assert.Equal(t, "standard", locks[0].Mode)
	require.Len(t, emits, 2)
	assert.Equal(t, "1", emits[0].StepID)

	found, err := tr.StepByID("0")
	require.NoError(t, err)
	assert.Same(t, a, found)
	_, err = tr.StepByID("9")
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}

func TestTraversal_All(t *testing.T) {
	tr := build(t, newAdd(1))
	tr.AddStartValues(1, 2, 3)

	var got []any
	for v, err := range tr.All() {
		require.NoError(t, err)
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []any{2, 3}, got)

	var rest []any
	require.NoError(t, tr.ForEachRemaining(func(v any) error {
		rest = append(rest, v)
		return nil
	}))
	assert.Equal(t, []any{4}, rest)
}

func TestTraversal_ComputerModeLocators(t *testing.T) {
	a, b := newAdd(1), newAdd(1)
	tr := traversal.New(traversal.WithMode(domain.ModeComputer))
	require.NoError(t, tr.AddStep(a))
	require.NoError(t, tr.AddStep(b))
	tr.Lock()

	a.AddStart(domain.NewTraverser(1))
	out, err := traversal.Drain(a)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].StepID(), "points at the next step")

	b.AddStarts(out...)
	out, err = traversal.Drain(b)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsHalted())
	assert.Equal(t, 3, out[0].Get())
}

func TestStepString(t *testing.T) {
	s := newAdd(1)
	s.AddLabel("a")
	s.AddLabel("a")
	s.AddLabel("b")
	assert.Equal(t, "addStep@[a,b]", s.String())
	assert.Equal(t, "addStep(x,1)", traversal.MakeStepString(newAdd(1), "x", 1))
}
