package computer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/computer"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func g() *dsl.Builder {
	return dsl.New(memory.Modern())
}

var queries = map[string]func() *dsl.Builder{
	"out names": func() *dsl.Builder {
		return g().V().Out().Values("name")
	},
	"choose if": func() *dsl.Builder {
		old := function.Has(function.Constant("age"), function.Gt(30))
		return g().V().HasLabel("person").
			ChooseIf(old, dsl.Anon().Values("name"), dsl.Anon().Constant("young"))
	},
	"choose by label": func() *dsl.Builder {
		return g().V().Choose(function.Label(), map[any]*dsl.Builder{
			"person":   dsl.Anon().Out().Label(),
			"software": dsl.Anon().In().Values("name"),
		})
	},
	"nested choose": func() *dsl.Builder {
		young := function.Has(function.Constant("age"), function.Lt(30))
		return g().V().Choose(function.Label(), map[any]*dsl.Builder{
			"person": dsl.Anon().ChooseIf(young,
				dsl.Anon().Constant("young"),
				dsl.Anon().Out().Values("name")),
			"software": dsl.Anon().Values("lang"),
		})
	},
	"count": func() *dsl.Builder {
		return g().V().Out().Count()
	},
	"dedup count": func() *dsl.Builder {
		return g().V().Out().Dedup().Count()
	},
	"group count": func() *dsl.Builder {
		return g().V().Out().Label().GroupCount()
	},
	"limit": func() *dsl.Builder {
		return g().V().Limit(2).Count()
	},
	"choose then count": func() *dsl.Builder {
		person := function.HasLabel([]string{"person"})
		return g().V().ChooseIf(person, dsl.Anon().Out(), dsl.Anon().In()).Count()
	},
	"count inside branch": func() *dsl.Builder {
		person := function.HasLabel([]string{"person"})
		return g().V().ChooseIf(person, dsl.Anon().Out().Count(), dsl.Anon().Values("name"))
	},
	"dedup inside branch": func() *dsl.Builder {
		person := function.HasLabel([]string{"person"})
		return g().V().ChooseIf(person, dsl.Anon().Out().Dedup(), dsl.Anon().In())
	},
	"select": func() *dsl.Builder {
		return g().V(1).As("a").Out().As("b").Select("a", "b")
	},
}

func TestComputer_MatchesStandardExecution(t *testing.T) {
	for name, q := range queries {
		for _, workers := range []int{1, 3} {
			t.Run(fmt.Sprintf("%s/workers=%d", name, workers), func(t *testing.T) {
				want, err := q().ToList()
				require.NoError(t, err)

				b := q()
				require.NoError(t, b.Err())
				res, err := computer.New(computer.WithWorkers(workers)).Submit(context.Background(), b.Traversal())
				require.NoError(t, err)
				assert.ElementsMatch(t, want, res.Values())
				assert.False(t, b.Traversal().Locked(), "the submitted traversal is not run")
			})
		}
	}
}

func TestComputer_InjectedStarts(t *testing.T) {
	positive := function.FilterLambda("positive", func(v any) (bool, error) { return v.(int) > 0, nil })
	b := dsl.Anon().ChooseIf(positive,
		dsl.Anon().Identity(),
		dsl.Anon().Map("negate", func(v any) (any, error) { return -v.(int), nil }))

	heavy := domain.NewTraverser(-7)
	heavy.SetBulk(2)
	res, err := computer.New(computer.WithWorkers(2)).Submit(context.Background(), b.Traversal(), 3, -2, 0, 5, heavy)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{3, 2, 0, 5, 7, 7}, res.Values())
	for _, tr := range res.Traversers {
		assert.True(t, tr.IsHalted())
	}
}

func TestComputer_MergesSideEffects(t *testing.T) {
	mem := memory.NewMemory()
	b := g().V().Store("all").Values("age").Sum("ages")
	res, err := computer.New(computer.WithWorkers(3), computer.WithMemory(mem)).
		Submit(context.Background(), b.Traversal())
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{29, 27, 32, 35}, res.Values())

	assert.Len(t, res.SideEffects["all"], 6)
	assert.Equal(t, int64(123), res.SideEffects["ages"])

	snap, err := mem.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123), snap["ages"])

	total, ok := b.Traversal().SideEffects().Get("ages")
	require.True(t, ok)
	assert.Equal(t, int64(123), total, "results are merged back into the submitted traversal")
}

func TestComputer_BranchSideEffects(t *testing.T) {
	person := function.HasLabel([]string{"person"})
	b := g().V().ChooseIf(person, dsl.Anon().Store("people"), dsl.Anon().Store("things"))
	res, err := computer.New(computer.WithWorkers(2)).Submit(context.Background(), b.Traversal())
	require.NoError(t, err)
	assert.Len(t, res.SideEffects["people"], 4)
	assert.Len(t, res.SideEffects["things"], 2)
}

func TestComputer_HooksAndJobID(t *testing.T) {
	var events []*domain.SuperstepEvent
	c := computer.New(computer.WithHooks(domain.LifecycleHooks{
		OnSuperstep: func(e *domain.SuperstepEvent) { events = append(events, e) },
	}))
	res, err := c.Submit(context.Background(), g().V().Out().Count().Traversal())
	require.NoError(t, err)

	_, err = uuid.Parse(res.JobID)
	assert.NoError(t, err)
	require.Len(t, events, res.Supersteps)
	for i, e := range events {
		assert.Equal(t, res.JobID, e.JobID)
		assert.Equal(t, i, e.Superstep)
		assert.Equal(t, domain.EventSuperstep, e.Type)
	}
	assert.Len(t, res.Traversers, 1)
}

func TestComputer_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	c := computer.New(computer.WithTracer(tp.Tracer("test")))

	res, err := c.Submit(context.Background(), g().V().Out().Values("name").Traversal())
	require.NoError(t, err)

	var jobs, supersteps int
	for _, s := range sr.Ended() {
		switch s.Name() {
		case "computer.job":
			jobs++
		case "computer.superstep":
			supersteps++
		}
	}
	assert.Equal(t, 1, jobs)
	assert.Equal(t, res.Supersteps, supersteps)
}

func TestComputer_SuperstepLimit(t *testing.T) {
	c := computer.New(computer.WithMaxSupersteps(1))
	_, err := c.Submit(context.Background(), g().V().Out().Out().Traversal())
	assert.ErrorIs(t, err, computer.ErrSuperstepLimit)
}

func TestComputer_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := computer.New().Submit(ctx, g().V().Out().Traversal())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputer_UserErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	b := g().V().Map("explode", func(any) (any, error) { return nil, boom })
	_, err := computer.New(computer.WithWorkers(2)).Submit(context.Background(), b.Traversal())
	assert.ErrorIs(t, err, boom)
}

func TestComputer_EmptyTraversal(t *testing.T) {
	res, err := computer.New().Submit(context.Background(), dsl.Anon().Traversal())
	require.NoError(t, err)
	assert.Empty(t, res.Values())
	assert.Zero(t, res.Supersteps)
}
