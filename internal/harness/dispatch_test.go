package harness

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/54b3r/awsai-go/internal/agent"
	"github.com/54b3r/awsai-go/internal/metrics"
)

func TestKeywordDispatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantTool string
		wantArgs string
	}{
		{"s3 default", "List all S3 buckets in my AWS account", "list_s3_buckets", "{}"},
		{"route 53 default", "List all Route 53 hosted zones", "list_route53_hosted_zones", "{}"},
		{"hosted zone only", "show me every hosted zone", "list_route53_hosted_zones", "{}"},
		{"ec2 default", "Get the size of EC2 instance with IP 10.0.1.112", "get_ec2_instance_size", `{"instance_ip":"10.0.1.112"}`},
		{"iam default", "Get permissions for IAM user take-home-coding", "get_user_permissions", `{"user_name":"take-home-coding"}`},
		{"iam mixed case user", "Get permissions for IAM user Take-Home-Coding", "get_user_permissions", `{"user_name":"take-home-coding"}`},
		{"s3 wins over route 53", "s3 bucket and route 53 hosted zone", "list_s3_buckets", "{}"},
		{"ec2 other ip", "Get the size of EC2 instance with IP 10.0.1.113", "", ""},
		{"iam other user", "Get permissions for IAM user alice", "", ""},
		{"s3 without bucket", "How much does S3 cost", "", ""},
		{"empty", "", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			inv, err := KeywordDispatcher{}.Dispatch(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if tc.wantTool == "" {
				if inv != nil {
					t.Errorf("Dispatch() = %+v, want no tool", inv)
				}
				return
			}
			if inv == nil {
				t.Fatalf("Dispatch() = nil, want %s", tc.wantTool)
			}
			if inv.Tool != tc.wantTool || inv.Arguments != tc.wantArgs {
				t.Errorf("Dispatch() = %s %s, want %s %s", inv.Tool, inv.Arguments, tc.wantTool, tc.wantArgs)
			}
			if inv.Label != LabelFor(tc.wantTool) {
				t.Errorf("Label = %q", inv.Label)
			}
		})
	}
}

// fakeSelector returns canned tool calls.
type fakeSelector struct {
	calls []agent.ToolCall
	err   error
}

func (f fakeSelector) Select(context.Context, string) ([]agent.ToolCall, error) {
	return f.calls, f.err
}

func TestModelDispatcher(t *testing.T) {
	t.Parallel()

	d := ModelDispatcher{Selector: fakeSelector{calls: []agent.ToolCall{
		{Name: "get_user_permissions", Arguments: `{"user_name":"bob"}`},
		{Name: "list_s3_buckets", Arguments: `{}`},
	}}, Metrics: metrics.New()}

	inv, err := d.Dispatch(context.Background(), "what can bob do")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	want := Invocation{Tool: "get_user_permissions", Arguments: `{"user_name":"bob"}`, Label: "Getting IAM user permissions..."}
	if inv == nil || *inv != want {
		t.Errorf("Dispatch() = %+v, want %+v", inv, want)
	}
}

func TestModelDispatcher_NoCallsAndError(t *testing.T) {
	t.Parallel()

	inv, err := ModelDispatcher{Selector: fakeSelector{}}.Dispatch(context.Background(), "hello")
	if err != nil || inv != nil {
		t.Errorf("Dispatch() = %+v, %v; want nil, nil", inv, err)
	}

	_, err = ModelDispatcher{Selector: fakeSelector{err: errors.New("rate limited")}}.Dispatch(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Dispatch() error = %v", err)
	}
}

func TestNewDispatcher(t *testing.T) {
	t.Parallel()

	if d, err := NewDispatcher("", nil, nil); err != nil {
		t.Errorf("default mode error = %v", err)
	} else if _, ok := d.(KeywordDispatcher); !ok {
		t.Errorf("default mode = %T, want KeywordDispatcher", d)
	}
	if _, err := NewDispatcher(ModeModel, nil, nil); err == nil {
		t.Error("model mode without selector: expected error")
	}
	if d, err := NewDispatcher(ModeModel, fakeSelector{}, nil); err != nil {
		t.Errorf("model mode error = %v", err)
	} else if _, ok := d.(ModelDispatcher); !ok {
		t.Errorf("model mode = %T, want ModelDispatcher", d)
	}
	if _, err := NewDispatcher("regex", nil, nil); err == nil || !strings.Contains(err.Error(), "regex") {
		t.Errorf("unknown mode error = %v", err)
	}
}

func TestLabelFor_Unknown(t *testing.T) {
	t.Parallel()

	if got := LabelFor("describe_vpcs"); got != "Executing describe_vpcs..." {
		t.Errorf("LabelFor() = %q", got)
	}
}
