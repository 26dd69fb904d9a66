package tools

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
)

// BucketsTool lists the S3 buckets in the account. Unlike the other tools it
// builds its own S3 handle on every call.
type BucketsTool struct {
	// newClient constructs a fresh S3 handle per call.
	newClient cloud.S3Factory
}

// NewBucketsTool constructs a BucketsTool that obtains its client from newClient.
func NewBucketsTool(newClient cloud.S3Factory) *BucketsTool {
	return &BucketsTool{newClient: newClient}
}

// Name returns the tool name registered with the model.
func (t *BucketsTool) Name() string { return "list_s3_buckets" }

// Description returns the LLM-facing description of this tool.
func (t *BucketsTool) Description() string {
	return "List all S3 buckets in the AWS account."
}

// Info returns the Eino tool metadata. The tool takes no parameters.
func (t *BucketsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        t.Name(),
		Desc:        t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}, nil
}

// InvokableRun lists the buckets and returns the rendered result.
func (t *BucketsTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return t.Call(ctx, argumentsInJSON).String(), nil
}

// Call ignores its arguments and lists the buckets.
func (t *BucketsTool) Call(ctx context.Context, _ string) Result {
	return t.List(ctx)
}

// List returns the bucket names in provider order.
func (t *BucketsTool) List(ctx context.Context) Result {
	const prefix = "Error listing S3 buckets"

	client, err := t.newClient(ctx)
	if err != nil {
		return failure(KindProvider, prefix, err)
	}

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return failure(KindProvider, prefix, err)
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}

	return success("S3 Buckets: " + formatNames(names))
}
