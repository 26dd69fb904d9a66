package tools

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
	"github.com/54b3r/awsai-go/internal/logging"
)

// HostedZonesTool lists the Route 53 hosted zones in the account.
type HostedZonesTool struct {
	// client is the session-wide Route 53 handle.
	client cloud.Route53API
}

// NewHostedZonesTool constructs a HostedZonesTool over client.
func NewHostedZonesTool(client cloud.Route53API) *HostedZonesTool {
	return &HostedZonesTool{client: client}
}

// Name returns the tool name registered with the model.
func (t *HostedZonesTool) Name() string { return "list_route53_hosted_zones" }

// Description returns the LLM-facing description of this tool.
func (t *HostedZonesTool) Description() string {
	return "List all Route 53 hosted zones in the AWS account."
}

// Info returns the Eino tool metadata. The tool takes no parameters.
func (t *HostedZonesTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        t.Name(),
		Desc:        t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}, nil
}

// InvokableRun lists the zones and returns the rendered result.
func (t *HostedZonesTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return t.Call(ctx, argumentsInJSON).String(), nil
}

// Call ignores its arguments and lists the zones.
func (t *HostedZonesTool) Call(ctx context.Context, _ string) Result {
	return t.List(ctx)
}

// List returns the zone names of the first ListHostedZones page in provider
// order. Further pages are not requested.
func (t *HostedZonesTool) List(ctx context.Context) Result {
	out, err := t.client.ListHostedZones(ctx, &route53.ListHostedZonesInput{})
	if err != nil {
		return failure(KindProvider, "Error listing Route 53 hosted zones", err)
	}

	names := make([]string, 0, len(out.HostedZones))
	for _, z := range out.HostedZones {
		names = append(names, aws.ToString(z.Name))
	}
	logging.FromContext(ctx).Debug("tools: listed hosted zones", slog.Int("count", len(names)))

	return success("Route 53 Hosted Zones: " + formatNames(names))
}
