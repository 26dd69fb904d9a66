package tools

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
)

// UserPoliciesTool lists the managed policies attached directly to an IAM
// user. Group-inherited and inline policies are not included.
type UserPoliciesTool struct {
	// client is the session-wide IAM handle.
	client cloud.IAMAPI
}

// userPoliciesInput is the JSON-serialisable input schema for UserPoliciesTool.
type userPoliciesInput struct {
	// UserName is the IAM user name.
	UserName string `json:"user_name"`
}

// NewUserPoliciesTool constructs a UserPoliciesTool over client.
func NewUserPoliciesTool(client cloud.IAMAPI) *UserPoliciesTool {
	return &UserPoliciesTool{client: client}
}

// Name returns the tool name registered with the model.
func (t *UserPoliciesTool) Name() string { return "get_user_permissions" }

// Description returns the LLM-facing description of this tool.
func (t *UserPoliciesTool) Description() string {
	return "Get all attached IAM policies for a specific IAM user."
}

// Info returns the Eino tool metadata including the JSON input schema.
func (t *UserPoliciesTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.Name(),
		Desc: t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"user_name": {
				Type:     schema.String,
				Desc:     "IAM user name, e.g. 'take-home-coding'.",
				Required: true,
			},
		}),
	}, nil
}

// InvokableRun lists the user's policies and returns the rendered result.
func (t *UserPoliciesTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return t.Call(ctx, argumentsInJSON).String(), nil
}

// Call decodes the user_name argument and lists the user's policies.
func (t *UserPoliciesTool) Call(ctx context.Context, argumentsInJSON string) Result {
	var input userPoliciesInput
	if err := decodeInput(argumentsInJSON, &input); err != nil {
		return inputFailure(t.Name(), err)
	}
	return t.List(ctx, input.UserName)
}

// List returns the attached policy names for userName in provider order.
func (t *UserPoliciesTool) List(ctx context.Context, userName string) Result {
	out, err := t.client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return failure(KindProvider, "Error getting user permissions", err)
	}

	names := make([]string, 0, len(out.AttachedPolicies))
	for _, p := range out.AttachedPolicies {
		names = append(names, aws.ToString(p.PolicyName))
	}

	return success(fmt.Sprintf("IAM user '%s' has these policies: %s", userName, formatNames(names)))
}
