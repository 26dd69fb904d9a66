package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
	"github.com/54b3r/awsai-go/internal/logging"
)

// Observer is notified after every call made through a Registry.
type Observer func(name string, res Result, elapsed time.Duration)

// Registry holds the available tools in registration order, keyed by name.
// It is populated once at startup and read-only afterwards.
type Registry struct {
	// order preserves registration order for listings and model binding.
	order []Tool
	// byName indexes order by tool name.
	byName map[string]Tool
	// observers are called after each Invoke.
	observers []Observer
}

// NewRegistry creates a registry holding ts. Panics on duplicate names
// (startup wiring error, not a runtime condition).
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if _, exists := r.byName[t.Name()]; exists {
			panic("duplicate tool registration: " + t.Name())
		}
		r.order = append(r.order, t)
		r.byName[t.Name()] = t
	}
	return r
}

// NewDefaultRegistry wires the five AWS tools to session and runner.
func NewDefaultRegistry(session *cloud.Session, runner Runner) *Registry {
	return NewRegistry(
		NewCLITool(runner, session.Credentials),
		NewHostedZonesTool(session.Route53),
		NewInstanceTypeTool(session.EC2),
		NewUserPoliciesTool(session.IAM),
		NewBucketsTool(session.NewS3),
	)
}

// Observe registers fn to be called after every Invoke.
func (r *Registry) Observe(fn Observer) {
	r.observers = append(r.observers, fn)
}

// Get returns the tool by name, or nil if not found.
func (r *Registry) Get(name string) Tool {
	return r.byName[name]
}

// List returns all registered tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.order))
	copy(out, r.order)
	return out
}

// BaseTools returns the tools as Eino BaseTools for model binding.
func (r *Registry) BaseTools() []tool.BaseTool {
	out := make([]tool.BaseTool, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, t)
	}
	return out
}

// Infos returns the Eino tool schemas in registration order.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, t := range r.order {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tools: info for %s: %w", t.Name(), err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Invoke runs the named tool with JSON arguments. An unknown name yields a
// KindInput failure rather than an error.
func (r *Registry) Invoke(ctx context.Context, name, argumentsInJSON string) Result {
	start := time.Now()

	var res Result
	if t := r.Get(name); t != nil {
		res = t.Call(ctx, argumentsInJSON)
	} else {
		res = failure(KindInput, "Error", fmt.Errorf("unknown tool %q", name))
	}
	elapsed := time.Since(start)

	log := logging.FromContext(ctx)
	if res.OK() {
		log.Debug("tools: call succeeded", slog.String("tool", name), slog.Duration("elapsed", elapsed))
	} else {
		log.Warn("tools: call failed",
			slog.String("tool", name),
			slog.String("kind", string(res.Err.Kind)),
			slog.Any("error", res.Err.Err),
		)
	}

	for _, fn := range r.observers {
		fn(name, res, elapsed)
	}
	return res
}
