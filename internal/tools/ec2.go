package tools

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
)

// InstanceTypeTool looks up the instance type of an EC2 instance by its
// private IP address.
type InstanceTypeTool struct {
	// client is the session-wide EC2 handle.
	client cloud.EC2API
}

// instanceInput is the JSON-serialisable input schema for InstanceTypeTool.
type instanceInput struct {
	// InstanceIP is the private IPv4 address to filter on.
	InstanceIP string `json:"instance_ip"`
}

// NewInstanceTypeTool constructs an InstanceTypeTool over client.
func NewInstanceTypeTool(client cloud.EC2API) *InstanceTypeTool {
	return &InstanceTypeTool{client: client}
}

// Name returns the tool name registered with the model.
func (t *InstanceTypeTool) Name() string { return "get_ec2_instance_size" }

// Description returns the LLM-facing description of this tool.
func (t *InstanceTypeTool) Description() string {
	return "Get the instance type/size of an EC2 instance by its private IP address."
}

// Info returns the Eino tool metadata including the JSON input schema.
func (t *InstanceTypeTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.Name(),
		Desc: t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"instance_ip": {
				Type:     schema.String,
				Desc:     "Private IP address of the instance, e.g. '10.0.1.112'.",
				Required: true,
			},
		}),
	}, nil
}

// InvokableRun looks up the instance and returns the rendered result.
func (t *InstanceTypeTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return t.Call(ctx, argumentsInJSON).String(), nil
}

// Call decodes the instance_ip argument and looks it up.
func (t *InstanceTypeTool) Call(ctx context.Context, argumentsInJSON string) Result {
	var input instanceInput
	if err := decodeInput(argumentsInJSON, &input); err != nil {
		return inputFailure(t.Name(), err)
	}
	return t.Lookup(ctx, input.InstanceIP)
}

// Lookup filters instances by private IP and reports the type of the first
// instance of the first reservation. The address is not validated: a
// malformed value simply matches nothing.
func (t *InstanceTypeTool) Lookup(ctx context.Context, ip string) Result {
	out, err := t.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("private-ip-address"), Values: []string{ip}},
		},
	})
	if err != nil {
		return failure(KindProvider, "Error getting EC2 instance size", err)
	}

	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return success(fmt.Sprintf("No EC2 instance found with IP address: %s", ip))
	}

	instanceType := out.Reservations[0].Instances[0].InstanceType
	return success(fmt.Sprintf("EC2 instance %s is of type: %s", ip, instanceType))
}
