package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/54b3r/awsai-go/internal/agent"
	"github.com/54b3r/awsai-go/internal/metrics"
)

// Invocation is one tool call chosen for a query.
type Invocation struct {
	// Tool is the registered tool name.
	Tool string
	// Arguments is the JSON-encoded argument object.
	Arguments string
	// Label is the progress line printed before the result.
	Label string
}

// Dispatcher decides which tool, if any, answers a query. A nil Invocation
// with a nil error means no tool applies.
type Dispatcher interface {
	Dispatch(ctx context.Context, query string) (*Invocation, error)
}

// labels maps tool names to the progress line printed before their result.
var labels = map[string]string{
	"list_s3_buckets":           "Executing S3 bucket listing...",
	"list_route53_hosted_zones": "Executing Route 53 hosted zones listing...",
	"get_ec2_instance_size":     "Getting EC2 instance size...",
	"get_user_permissions":      "Getting IAM user permissions...",
	"aws_cli_command":           "Executing AWS CLI command...",
}

// LabelFor returns the progress line for a tool name.
func LabelFor(tool string) string {
	if l, ok := labels[tool]; ok {
		return l
	}
	return "Executing " + tool + "..."
}

// rule is one row of the keyword table.
type rule struct {
	match func(lower, raw string) bool
	tool  string
	args  any
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// keywordRules is evaluated top to bottom; the first match wins. The EC2
// address is tested against the raw query, the rest against its lowercase form.
var keywordRules = []rule{
	{
		match: func(lower, _ string) bool { return containsAll(lower, "s3", "bucket") },
		tool:  "list_s3_buckets",
		args:  struct{}{},
	},
	{
		match: func(lower, _ string) bool {
			return strings.Contains(lower, "route 53") || strings.Contains(lower, "hosted zone")
		},
		tool: "list_route53_hosted_zones",
		args: struct{}{},
	},
	{
		match: func(lower, raw string) bool {
			return strings.Contains(lower, "ec2") && strings.Contains(raw, "10.0.1.112")
		},
		tool: "get_ec2_instance_size",
		args: map[string]string{"instance_ip": "10.0.1.112"},
	},
	{
		match: func(lower, _ string) bool { return containsAll(lower, "iam", "take-home-coding") },
		tool:  "get_user_permissions",
		args:  map[string]string{"user_name": "take-home-coding"},
	},
}

// KeywordDispatcher routes queries with a fixed substring rule table. It only
// recognises the demonstration queries and their close variants.
type KeywordDispatcher struct{}

// Dispatch returns the invocation of the first matching rule.
func (KeywordDispatcher) Dispatch(_ context.Context, query string) (*Invocation, error) {
	lower := strings.ToLower(query)
	for _, r := range keywordRules {
		if !r.match(lower, query) {
			continue
		}
		args, err := json.Marshal(r.args)
		if err != nil {
			return nil, fmt.Errorf("harness: encode %s arguments: %w", r.tool, err)
		}
		return &Invocation{Tool: r.tool, Arguments: string(args), Label: LabelFor(r.tool)}, nil
	}
	return nil, nil
}

// Selector returns the tool calls a model picks for a query.
type Selector interface {
	Select(ctx context.Context, query string) ([]agent.ToolCall, error)
}

// ModelDispatcher lets the tool-bound model choose. Only the first tool call
// of the reply is used.
type ModelDispatcher struct {
	Selector Selector
	// Metrics records the selection call when set.
	Metrics *metrics.Metrics
}

// Dispatch asks the model for a tool call.
func (d ModelDispatcher) Dispatch(ctx context.Context, query string) (*Invocation, error) {
	start := time.Now()
	calls, err := d.Selector.Select(ctx, query)
	if d.Metrics != nil {
		d.Metrics.ObserveModel("select", err == nil, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, nil
	}
	first := calls[0]
	return &Invocation{Tool: first.Name, Arguments: first.Arguments, Label: LabelFor(first.Name)}, nil
}

// Dispatch mode names accepted by NewDispatcher.
const (
	ModeKeyword = "keyword"
	ModeModel   = "model"
)

// NewDispatcher returns the dispatcher for mode. sel and m are only used by
// the model mode; m may be nil.
func NewDispatcher(mode string, sel Selector, m *metrics.Metrics) (Dispatcher, error) {
	switch mode {
	case "", ModeKeyword:
		return KeywordDispatcher{}, nil
	case ModeModel:
		if sel == nil {
			return nil, fmt.Errorf("harness: model dispatch requires a selector")
		}
		return ModelDispatcher{Selector: sel, Metrics: m}, nil
	default:
		return nil, fmt.Errorf("harness: unknown dispatch mode %q (want %s or %s)", mode, ModeKeyword, ModeModel)
	}
}
