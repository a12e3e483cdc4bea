package computer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/traversal"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrSuperstepLimit is returned when a job does not halt within the configured
// number of supersteps.
var ErrSuperstepLimit = errors.New("superstep limit exceeded")

const defaultMaxSupersteps = 10_000

// Computer executes traversals in computer mode.
type Computer struct {
	workers       int
	logger        *slog.Logger
	memory        ports.Memory
	hooks         domain.LifecycleHooks
	maxSupersteps int
	tracer        trace.Tracer
}

// New creates a Computer. By default it runs one worker per traversal and uses
// a no-op logger and the global tracer provider.
func New(opts ...Option) *Computer {
	c := &Computer{
		workers:       1,
		logger:        logging.NewNop(),
		maxSupersteps: defaultMaxSupersteps,
		tracer:        otel.Tracer("github.com/aretw0/vine/pkg/computer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a job.
type Result struct {
	JobID      string
	Supersteps int
	// Traversers are the halted traversers, each carrying its bulk.
	Traversers []*domain.Traverser
	// SideEffects is a snapshot of the merged side-effects, read from the
	// configured memory when there is one.
	SideEffects map[string]any
}

// Values expands the halted traversers by bulk.
func (r *Result) Values() []any {
	var out []any
	for _, t := range r.Traversers {
		for i := int64(0); i < t.Bulk(); i++ {
			out = append(out, t.Get())
		}
	}
	return out
}

type job struct {
	id      string
	master  *traversal.Traversal
	workers []*traversal.Traversal
	order   map[string]int
	held    map[string][]*domain.Traverser
	halted  []*domain.Traverser
}

// Submit runs t in computer mode. Each start is a value or a *domain.Traverser
// injected at the start step; with no starts, the master's start step is drained
// once to seed the run (this is how a V() source emits its vertices).
// t itself is left untouched apart from receiving the merged side-effects.
func (c *Computer) Submit(ctx context.Context, t *traversal.Traversal, starts ...any) (*Result, error) {
	j := &job{
		id:   uuid.NewString(),
		held: make(map[string][]*domain.Traverser),
	}
	ctx, span := c.tracer.Start(ctx, "computer.job", trace.WithAttributes(
		attribute.String("vine.job_id", j.id),
		attribute.Int("vine.workers", c.workers),
	))
	defer span.End()

	logger := c.logger.With("job", j.id)

	var err error
	if j.master, err = computerClone(t); err != nil {
		return nil, err
	}
	for i := 0; i < c.workers; i++ {
		w, err := computerClone(t)
		if err != nil {
			return nil, err
		}
		j.workers = append(j.workers, w)
	}
	j.order = make(map[string]int)
	j.master.Walk(func(s traversal.Step) {
		j.order[s.ID()] = len(j.order)
	})

	messages, err := j.seed(starts)
	if err != nil {
		return nil, err
	}

	superstep := 0
	for {
		messages = j.collect(messages)
		if len(messages) == 0 && len(j.held) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if superstep >= c.maxSupersteps {
			return nil, fmt.Errorf("%w: %d", ErrSuperstepLimit, c.maxSupersteps)
		}

		start := time.Now()
		stepCtx, stepSpan := c.tracer.Start(ctx, "computer.superstep", trace.WithAttributes(
			attribute.Int("vine.superstep", superstep),
			attribute.Int("vine.messages", len(messages)),
		))
		inFlight := len(messages)
		if len(messages) > 0 {
			messages, err = c.superstep(stepCtx, j, messages)
		} else {
			inFlight = j.heldCount()
			messages, err = j.releaseBarrier()
		}
		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		stepSpan.End()

		logger.Debug("superstep complete", "superstep", superstep, "messages", inFlight, "halted", len(j.halted))
		c.hooks.Superstep(&domain.SuperstepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSuperstep},
			JobID:     j.id,
			Superstep: superstep,
			Messages:  inFlight,
			Halted:    len(j.halted),
			Duration:  time.Since(start),
		})
		superstep++
	}

	snapshot, err := c.mergeSideEffects(ctx, t, j)
	if err != nil {
		return nil, err
	}
	logger.Info("job complete", "supersteps", superstep, "results", len(j.halted))
	span.SetAttributes(attribute.Int("vine.supersteps", superstep))

	return &Result{
		JobID:       j.id,
		Supersteps:  superstep,
		Traversers:  j.halted,
		SideEffects: snapshot,
	}, nil
}

func computerClone(t *traversal.Traversal) (*traversal.Traversal, error) {
	c := t.Clone()
	if err := c.SetMode(domain.ModeComputer); err != nil {
		return nil, err
	}
	c.Lock()
	return c, nil
}

func (j *job) seed(starts []any) ([]*domain.Traverser, error) {
	if len(starts) == 0 {
		return traversal.Drain(j.master.StartStep())
	}
	startID := j.master.StartStep().ID()
	out := make([]*domain.Traverser, 0, len(starts))
	for _, s := range starts {
		tr, ok := s.(*domain.Traverser)
		if ok {
			tr = tr.Clone()
			if tr.Path() == nil && j.master.Requirements().TracksPath() {
				tr.TrackPath()
			}
		} else {
			tr = j.master.Generate(s)
		}
		tr.SetStepID(startID)
		out = append(out, tr)
	}
	return out, nil
}

type mergeKey struct {
	stepID string
	value  any
}

// collect removes halted traversers and barrier input from messages and merges
// the remainder by (locator, value) when neither carries a path.
func (j *job) collect(messages []*domain.Traverser) []*domain.Traverser {
	merged := make(map[mergeKey]*domain.Traverser)
	out := messages[:0]
	for _, m := range messages {
		if m.IsHalted() {
			j.halted = append(j.halted, m)
			continue
		}
		if s, err := j.master.StepByID(m.StepID()); err == nil && traversal.IsBarrier(s) {
			j.held[m.StepID()] = append(j.held[m.StepID()], m)
			continue
		}
		if m.Path() != nil || !domain.Hashable(m.Get()) {
			out = append(out, m)
			continue
		}
		k := mergeKey{stepID: m.StepID(), value: m.Get()}
		if prev, ok := merged[k]; ok {
			prev.SetBulk(prev.Bulk() + m.Bulk())
			continue
		}
		merged[k] = m
		out = append(out, m)
	}
	return out
}

func (j *job) heldCount() int {
	n := 0
	for _, ms := range j.held {
		n += len(ms)
	}
	return n
}

// releaseBarrier runs the earliest held barrier on the master clone.
func (j *job) releaseBarrier() ([]*domain.Traverser, error) {
	ids := make([]string, 0, len(j.held))
	for id := range j.held {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return j.order[ids[a]] < j.order[ids[b]] })
	id := ids[0]
	input := j.held[id]
	delete(j.held, id)

	s, err := j.master.StepByID(id)
	if err != nil {
		return nil, err
	}
	for _, m := range input {
		m.SetSideEffects(j.master.SideEffects())
	}
	s.AddStarts(input...)
	return traversal.Drain(s)
}

// superstep delivers messages to workers by hash of (locator, value) and drains
// every addressed step.
func (c *Computer) superstep(ctx context.Context, j *job, messages []*domain.Traverser) ([]*domain.Traverser, error) {
	parts := make([][]*domain.Traverser, len(j.workers))
	for _, m := range messages {
		i := partition(m, len(j.workers))
		parts[i] = append(parts[i], m)
	}

	var (
		mu   sync.Mutex
		next []*domain.Traverser
	)
	eg, ctx := errgroup.WithContext(ctx)
	for i, w := range j.workers {
		if len(parts[i]) == 0 {
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := process(w, parts[i])
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			mu.Lock()
			next = append(next, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

func process(w *traversal.Traversal, messages []*domain.Traverser) ([]*domain.Traverser, error) {
	var steps []traversal.Step
	seen := make(map[string]bool)
	for _, m := range messages {
		s, err := w.StepByID(m.StepID())
		if err != nil {
			return nil, err
		}
		m.SetSideEffects(w.SideEffects())
		s.AddStart(m)
		if !seen[s.ID()] {
			seen[s.ID()] = true
			steps = append(steps, s)
		}
	}
	var out []*domain.Traverser
	for _, s := range steps {
		produced, err := traversal.Drain(s)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
	}
	return out, nil
}

func partition(m *domain.Traverser, n int) int {
	if n == 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s|%v", m.StepID(), m.Get())
	return int(h.Sum32() % uint32(n))
}

// mergeSideEffects folds the master and worker arenas into the configured memory
// and into t, and returns the snapshot.
func (c *Computer) mergeSideEffects(ctx context.Context, t *traversal.Traversal, j *job) (map[string]any, error) {
	total := domain.NewSideEffects()
	arenas := append([]*traversal.Traversal{j.master}, j.workers...)
	var errs []error
	for _, a := range arenas {
		if err := total.Merge(a.SideEffects()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := t.SideEffects().Merge(total); err != nil {
		return nil, err
	}
	if c.memory == nil {
		return total.Snapshot(), nil
	}
	if err := c.memory.Merge(ctx, total); err != nil {
		return nil, fmt.Errorf("merging into memory: %w", err)
	}
	return c.memory.Snapshot(ctx)
}
