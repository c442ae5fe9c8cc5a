package engine

import (
	"context"
	"fmt"
	"strings"

	applog "intentos/internal/log"
	"intentos/internal/registry"
)

// Result is the outcome of one directive. Exactly one of Rendered, Output
// and Error is set.
type Result struct {
	Directive Directive          `json:"directive"`
	Rendered  *registry.Rendered `json:"rendered,omitempty"`
	Output    any                `json:"output,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Dispatcher executes directives against the registries.
type Dispatcher struct {
	reg *registry.Registry
}

func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Dispatch runs the directives in order. A failing directive is reported in
// its Result and does not stop the others.
func (d *Dispatcher) Dispatch(ctx context.Context, directives []Directive) []Result {
	results := make([]Result, 0, len(directives))
	for _, dir := range directives {
		res := Result{Directive: dir}
		switch dir.Kind {
		case KindComponent:
			r, err := d.reg.Components.Invoke(ctx, dir.Name, dir.Props)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Rendered = &r
			}
		case KindTool:
			out, err := d.reg.Tools.Invoke(ctx, dir.Name, dir.Props)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Output = out
			}
		default:
			res.Error = fmt.Sprintf("unknown directive kind %q", dir.Kind)
		}

		if res.Error != "" {
			logger.WarnContext(ctx, "Directive failed",
				applog.FieldOperation, applog.OpInvoke,
				"name", dir.Name,
				applog.FieldError, res.Error)
		}
		results = append(results, res)
	}
	return results
}

// Summary describes the results as an assistant turn, so the engine can
// see what it rendered last time.
func Summary(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		switch {
		case r.Error != "":
			parts = append(parts, fmt.Sprintf("%s %s failed: %s", r.Directive.Kind, r.Directive.Name, r.Error))
		case r.Rendered != nil:
			parts = append(parts, "rendered "+r.Directive.Name)
		default:
			parts = append(parts, "called "+r.Directive.Name)
		}
	}
	if len(parts) == 0 {
		return "rendered nothing"
	}
	return strings.Join(parts, "; ")
}
