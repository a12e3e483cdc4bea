package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/step"
	"github.com/aretw0/vine/pkg/traversal"
)

// Builder is a handle on a traversal under construction.
type Builder struct {
	t   *traversal.Traversal
	err error
}

// New creates a root builder reading from g.
func New(g ports.Graph, opts ...traversal.Option) *Builder {
	opts = append([]traversal.Option{traversal.WithGraph(g)}, opts...)
	return &Builder{t: traversal.New(opts...)}
}

// Anon creates a builder for an anonymous traversal, meant to be used as a
// branch of Choose or fed explicitly with AddStarts.
func Anon() *Builder {
	return &Builder{t: traversal.NewChild()}
}

// From wraps an existing traversal.
func From(t *traversal.Traversal) *Builder {
	return &Builder{t: t}
}

// Traversal returns the underlying traversal.
func (b *Builder) Traversal() *traversal.Traversal { return b.t }

// Err returns the first error raised while building this handle's chain.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) *Builder {
	return &Builder{t: b.t, err: errors.Join(b.err, err)}
}

// Step appends an arbitrary step.
func (b *Builder) Step(s traversal.Step) *Builder {
	if err := b.t.AddStep(s); err != nil {
		return b.fail(err)
	}
	return &Builder{t: b.t, err: b.err}
}

// V starts from the vertices with ids, or all vertices.
func (b *Builder) V(ids ...any) *Builder {
	return b.Step(step.NewGraph(ids...))
}

// Out walks outgoing edges.
func (b *Builder) Out(edgeLabels ...string) *Builder {
	return b.Step(step.NewVertex(domain.DirectionOut, edgeLabels...))
}

// In walks incoming edges.
func (b *Builder) In(edgeLabels ...string) *Builder {
	return b.Step(step.NewVertex(domain.DirectionIn, edgeLabels...))
}

// Both walks edges in either direction.
func (b *Builder) Both(edgeLabels ...string) *Builder {
	return b.Step(step.NewVertex(domain.DirectionBoth, edgeLabels...))
}

// Has keeps values whose key satisfies value, which is either a function.P or
// a value compared for equality.
func (b *Builder) Has(key string, value any) *Builder {
	return b.Step(step.NewFilter(function.Has(function.Constant(key), toP(value))))
}

// HasKey keeps map-like values containing key.
func (b *Builder) HasKey(key string) *Builder {
	return b.Step(step.NewFilter(function.HasKey(function.Constant(key))))
}

// HasLabel keeps elements with one of labels.
func (b *Builder) HasLabel(labels ...string) *Builder {
	return b.Step(step.NewFilter(function.HasLabel(labels)))
}

// Is keeps values satisfying value, a function.P or an equality operand.
func (b *Builder) Is(value any) *Builder {
	return b.Step(step.NewFilter(function.Is(toP(value))))
}

// Where keeps the traversers f accepts.
func (b *Builder) Where(f function.FilterFunction) *Builder {
	return b.Step(step.NewFilter(f))
}

// Values emits the values under keys, or every property when keys is empty.
func (b *Builder) Values(keys ...string) *Builder {
	return b.Step(step.NewFlatMap(function.Values(keys)))
}

// Label maps elements to their label.
func (b *Builder) Label() *Builder {
	return b.Step(step.NewMap(function.Label()))
}

// ID maps elements to their id.
func (b *Builder) ID() *Builder {
	return b.Step(step.NewMap(function.ID()))
}

// Constant replaces every value with v.
func (b *Builder) Constant(v any) *Builder {
	return b.Step(step.NewMap(function.ConstantValue(v)))
}

// Apply maps with an arbitrary MapFunction.
func (b *Builder) Apply(fn function.MapFunction) *Builder {
	return b.Step(step.NewMap(fn))
}

// Map maps each value through fn.
func (b *Builder) Map(name string, fn func(any) (any, error)) *Builder {
	return b.Step(step.NewMap(function.MapLambda(name, fn)))
}

// Filter keeps values fn accepts.
func (b *Builder) Filter(name string, fn func(any) (bool, error)) *Builder {
	return b.Step(step.NewFilter(function.FilterLambda(name, fn)))
}

// Choose routes each traverser into the branch keyed by branch's result.
func (b *Builder) Choose(branch function.MapFunction, choices map[any]*Builder) *Builder {
	children := make(map[any]*traversal.Traversal, len(choices))
	for k, c := range choices {
		if c == nil {
			return b.fail(fmt.Errorf("%w: choice %v is nil", domain.ErrInvalidArgument, k))
		}
		if c.err != nil {
			return b.fail(c.err)
		}
		children[k] = c.t
	}
	s, err := step.NewChoose(branch, children)
	if err != nil {
		return b.fail(err)
	}
	return b.Step(s)
}

// ChooseIf routes traversers passing pred into onTrue and the rest into onFalse.
func (b *Builder) ChooseIf(pred function.FilterFunction, onTrue, onFalse *Builder) *Builder {
	return b.Choose(function.FromFilter(pred), map[any]*Builder{true: onTrue, false: onFalse})
}

// As labels the current end of the pipeline.
func (b *Builder) As(label string) *Builder {
	if b.t.Locked() {
		return b.fail(&domain.StateError{Op: "As", State: b.t.State().String()})
	}
	if len(b.t.Steps()) == 0 {
		next := b.Step(traversal.NewIdentityStep())
		if next.err != nil {
			return next
		}
	}
	b.t.EndStep().AddLabel(label)
	return &Builder{t: b.t, err: b.err}
}

// Path emits the path history of each traverser.
func (b *Builder) Path() *Builder {
	return b.Step(step.NewPath())
}

// Select emits the objects labeled with labels.
func (b *Builder) Select(labels ...string) *Builder {
	return b.Step(step.NewSelect(labels...))
}

// Store appends every value to the list side-effect key.
func (b *Builder) Store(key string) *Builder {
	return b.Step(step.NewStore(key))
}

// Sum adds every numeric value to the sum side-effect key.
func (b *Builder) Sum(key string) *Builder {
	return b.Step(step.NewSum(key))
}

// GroupCount reduces the input to a map from value to count.
func (b *Builder) GroupCount() *Builder {
	return b.Step(step.NewGroupCount("", nil))
}

// GroupCountBy reduces the input to a map from by's result to count.
func (b *Builder) GroupCountBy(by function.MapFunction) *Builder {
	return b.Step(step.NewGroupCount("", by))
}

// GroupCountInto counts values into the group_count side-effect key.
func (b *Builder) GroupCountInto(key string) *Builder {
	return b.Step(step.NewGroupCount(key, nil))
}

// Count reduces the input to the number of traversers.
func (b *Builder) Count() *Builder {
	return b.Step(step.NewCount())
}

// Limit keeps the first n traversers.
func (b *Builder) Limit(n int64) *Builder {
	return b.Step(step.NewLimit(n))
}

// Range keeps traversers in [low, high).
func (b *Builder) Range(low, high int64) *Builder {
	return b.Step(step.NewRange(low, high))
}

// Dedup drops repeated values.
func (b *Builder) Dedup() *Builder {
	return b.Step(step.NewDedup())
}

// Identity passes traversers through.
func (b *Builder) Identity() *Builder {
	return b.Step(traversal.NewIdentityStep())
}

// AddStarts injects values at the start of the pipeline.
func (b *Builder) AddStarts(values ...any) *Builder {
	b.t.AddStartValues(values...)
	return &Builder{t: b.t, err: b.err}
}

// HasNext reports whether another value is available.
func (b *Builder) HasNext() (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.t.HasNext()
}

// Next returns the next value.
func (b *Builder) Next() (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.t.NextValue()
}

// ToList drains every value.
func (b *Builder) ToList() ([]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.t.ToList()
}

// Iterate drains the traversal for its side-effects.
func (b *Builder) Iterate() error {
	if b.err != nil {
		return b.err
	}
	return b.t.Iterate()
}

// Reset clears the pipeline state.
func (b *Builder) Reset() *Builder {
	b.t.Reset()
	return &Builder{t: b.t, err: b.err}
}

func (b *Builder) String() string {
	return b.t.String()
}

func toP(v any) function.P {
	if p, ok := v.(function.P); ok {
		return p
	}
	return function.Eq(v)
}
