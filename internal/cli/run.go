package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Pipeline string
	// Mode overrides both the configuration and the pipeline when set.
	Mode   string
	JSON   bool
	Quiet  bool
	Starts []string
}

type runOutput struct {
	Values      []any          `json:"values"`
	SideEffects map[string]any `json:"side_effects,omitempty"`
	JobID       string         `json:"job_id,omitempty"`
	Supersteps  int            `json:"supersteps,omitempty"`
}

// Run compiles the pipeline and writes its results to w, one value per line,
// or as a single JSON document.
func Run(ctx context.Context, eng *vine.Engine, opts RunOptions, w io.Writer) error {
	t, err := eng.Load(opts.Pipeline)
	if err != nil {
		return err
	}
	if opts.Mode != "" {
		m, ok := domain.ParseMode(opts.Mode)
		if !ok {
			return fmt.Errorf("unknown mode %q", opts.Mode)
		}
		if err := t.SetMode(m); err != nil {
			return err
		}
	}
	if err := eng.Validate(t); err != nil {
		return err
	}

	res, err := eng.Execute(ctx, t, parseStarts(opts.Starts)...)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runOutput{
			Values:      jsonSafe(res.Values).([]any),
			SideEffects: jsonSafe(res.SideEffects).(map[string]any),
			JobID:       res.JobID,
			Supersteps:  res.Supersteps,
		})
	}

	for _, v := range res.Values {
		fmt.Fprintln(w, format(v))
	}
	if !opts.Quiet {
		keys := make([]string, 0, len(res.SideEffects))
		for k := range res.SideEffects {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			printSystemMessage(w, "%s = %s", k, format(res.SideEffects[k]))
		}
		if res.JobID != "" {
			printSystemMessage(w, "job %s finished after %d supersteps", res.JobID, res.Supersteps)
		}
	}
	return nil
}

// parseStarts reads each start as a JSON value, falling back to the raw string.
func parseStarts(raw []string) []any {
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			v = s
		}
		out = append(out, v)
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case *domain.Vertex:
		return fmt.Sprintf("v[%v]", x.ID)
	case *domain.Edge:
		return fmt.Sprintf("e[%v][%v-%s->%v]", x.ID, x.OutV, x.Label, x.InV)
	}
	return fmt.Sprint(jsonSafe(v))
}

// jsonSafe rewrites values so they encode as JSON: elements become maps and
// maps with non-string keys get their keys stringified.
func jsonSafe(v any) any {
	switch x := v.(type) {
	case *domain.Vertex:
		return map[string]any{"id": x.ID, "label": x.Label, "properties": x.Properties}
	case *domain.Edge:
		return map[string]any{"id": x.ID, "label": x.Label, "out": x.OutV, "in": x.InV}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonSafe(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonSafe(e)
		}
		return out
	case map[any]int64:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(jsonSafe(k))] = e
		}
		return out
	}
	return v
}
