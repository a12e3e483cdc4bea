package step

import (
	"errors"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/traversal"
)

// reduce pulls the whole input of s, handing each traverser to fold.
func reduce(s *traversal.StepBase, fold func(*domain.Traverser) error) error {
	for {
		t, err := s.NextStart()
		if errors.Is(err, domain.ErrNoSuchElement) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fold(t); err != nil {
			return err
		}
	}
}

// reduction records whether a reducing barrier has emitted for the starts its
// traversal has received so far. A spent barrier re-arms once new starts reach
// its traversal or are queued on the step itself.
type reduction struct {
	emitted bool
	batch   uint64
}

func (r *reduction) ready(s *traversal.StepBase) bool {
	if !r.emitted {
		return true
	}
	return s.Queued() > 0 || batchOf(s) != r.batch
}

// spend marks the reduction as emitted for the current batch.
func (r *reduction) spend(s *traversal.StepBase) {
	r.emitted = true
	r.batch = batchOf(s)
}

func batchOf(s *traversal.StepBase) uint64 {
	if t := s.Traversal(); t != nil {
		return t.Batch()
	}
	return 0
}

// CountStep emits the total bulk of its input once. Empty input counts as 0.
type CountStep struct {
	traversal.StepBase
	reduced reduction
}

// NewCount builds a count step.
func NewCount() *CountStep {
	s := &CountStep{}
	s.Init(s, "CountStep")
	return s
}

func (*CountStep) Barrier() {}

func (s *CountStep) ProcessNextStart() (*domain.Traverser, error) {
	if !s.reduced.ready(&s.StepBase) {
		return nil, domain.ErrNoSuchElement
	}
	var total int64
	if err := reduce(&s.StepBase, func(t *domain.Traverser) error {
		total += t.Bulk()
		return nil
	}); err != nil {
		return nil, err
	}
	s.reduced.spend(&s.StepBase)
	return s.Traversal().Generate(total), nil
}

// Reset leaves the count spent until new starts arrive.
func (s *CountStep) Reset() {
	s.StepBase.Reset()
	s.reduced.spend(&s.StepBase)
}

func (s *CountStep) Clone() traversal.Step {
	c := &CountStep{}
	c.StepBase = s.CloneFor(c)
	return c
}

// GroupCountStep counts values, optionally keyed by a MapFunction. Without a
// side-effect key it is a barrier emitting one map[any]int64. With a key it
// passes traversers through and accumulates into the group_count side-effect.
type GroupCountStep struct {
	traversal.StepBase
	key     string
	by      function.MapFunction
	reduced reduction
}

// NewGroupCount builds a group count step. by may be nil to group by value.
func NewGroupCount(sideEffectKey string, by function.MapFunction) *GroupCountStep {
	s := &GroupCountStep{key: sideEffectKey, by: by}
	s.Init(s, "GroupCountStep")
	return s
}

func (s *GroupCountStep) Barrier() {}

// IsBarrier reports whether the step reduces its input.
func (s *GroupCountStep) IsBarrier() bool { return s.key == "" }

func (s *GroupCountStep) Attach(t *traversal.Traversal) error {
	s.StepBase.SetTraversal(t)
	return declare(t, s.key, domain.OpGroupCount)
}

func (s *GroupCountStep) SetTraversal(t *traversal.Traversal) {
	attached(t, s, s.Attach(t))
}

func (s *GroupCountStep) group(t *domain.Traverser) (any, error) {
	if s.by == nil {
		return t.Get(), nil
	}
	return s.by.Apply(t)
}

func (s *GroupCountStep) ProcessNextStart() (*domain.Traverser, error) {
	if s.key != "" {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		k, err := s.group(t)
		if err != nil {
			return nil, err
		}
		if err := s.Traversal().SideEffects().AddBulk(s.key, k, t.Bulk()); err != nil {
			return nil, err
		}
		return t, nil
	}
	if !s.reduced.ready(&s.StepBase) {
		return nil, domain.ErrNoSuchElement
	}
	counts := make(map[any]int64)
	if err := reduce(&s.StepBase, func(t *domain.Traverser) error {
		k, err := s.group(t)
		if err != nil {
			return err
		}
		if !domain.Hashable(k) {
			return &domain.SideEffectError{Key: "groupCount", Reason: "unhashable group", Err: domain.ErrInvalidArgument}
		}
		counts[k] += t.Bulk()
		return nil
	}); err != nil {
		return nil, err
	}
	s.reduced.spend(&s.StepBase)
	return s.Traversal().Generate(counts), nil
}

func (s *GroupCountStep) Reset() {
	s.StepBase.Reset()
	s.reduced.spend(&s.StepBase)
}

func (s *GroupCountStep) Clone() traversal.Step {
	c := &GroupCountStep{key: s.key, by: s.by}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *GroupCountStep) String() string {
	var args []any
	if s.key != "" {
		args = append(args, s.key)
	}
	if s.by != nil {
		args = append(args, s.by)
	}
	return traversal.MakeStepString(s, args...)
}

// declare registers key with op on t's side-effects.
func declare(t *traversal.Traversal, key string, op domain.Operator) error {
	if t == nil || key == "" {
		return nil
	}
	return t.SideEffects().Declare(key, op)
}

// attached logs an attachment error on the paths that cannot return it, such
// as cloning. InsertStep reports it through Attach instead.
func attached(t *traversal.Traversal, s traversal.Step, err error) {
	if err != nil && t != nil {
		t.Logger().Warn("step attachment rejected", "step", s.String(), "err", err)
	}
}
