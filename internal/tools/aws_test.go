package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/54b3r/awsai-go/internal/cloud"
)

// ── fakes ───────────────────────────────────────────────────────────────────

type fakeRoute53 struct {
	out *route53.ListHostedZonesOutput
	err error
}

func (f *fakeRoute53) ListHostedZones(ctx context.Context, in *route53.ListHostedZonesInput, _ ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error) {
	return f.out, f.err
}

type fakeEC2 struct {
	gotFilters []ec2types.Filter
	out        *ec2.DescribeInstancesOutput
	err        error
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.gotFilters = in.Filters
	return f.out, f.err
}

type fakeIAM struct {
	gotUser string
	out     *iam.ListAttachedUserPoliciesOutput
	err     error
}

func (f *fakeIAM) ListAttachedUserPolicies(ctx context.Context, in *iam.ListAttachedUserPoliciesInput, _ ...func(*iam.Options)) (*iam.ListAttachedUserPoliciesOutput, error) {
	f.gotUser = aws.ToString(in.UserName)
	return f.out, f.err
}

type fakeS3 struct {
	out *s3.ListBucketsOutput
	err error
}

func (f *fakeS3) ListBuckets(ctx context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return f.out, f.err
}

// s3Factory returns a factory handing out client and counting calls.
func s3Factory(client cloud.S3API, err error, calls *int) cloud.S3Factory {
	return func(context.Context) (cloud.S3API, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// assertOK fails unless res succeeded and contains every item in want.
func assertOK(t *testing.T, res Result, want ...string) {
	t.Helper()
	if !res.OK() {
		t.Fatalf("result failed: %v", res.Err)
	}
	if strings.HasPrefix(res.String(), "Error") {
		t.Errorf("successful result rendered with error prefix: %q", res.String())
	}
	for _, w := range want {
		if !strings.Contains(res.String(), w) {
			t.Errorf("result %q missing %q", res.String(), w)
		}
	}
}

// assertFailed fails unless res failed with kind and renders prefix + cause.
func assertFailed(t *testing.T, res Result, kind ErrorKind, prefix, cause string) {
	t.Helper()
	if res.OK() {
		t.Fatalf("expected failure, got output %q", res.Output)
	}
	if res.Err.Kind != kind {
		t.Errorf("kind = %q, want %q", res.Err.Kind, kind)
	}
	if !strings.HasPrefix(res.String(), prefix+": ") {
		t.Errorf("result %q does not start with %q", res.String(), prefix+": ")
	}
	if !strings.Contains(res.String(), cause) {
		t.Errorf("result %q does not contain cause %q", res.String(), cause)
	}
}

// ── Route 53 ────────────────────────────────────────────────────────────────

func TestHostedZonesTool_List(t *testing.T) {
	t.Parallel()

	client := &fakeRoute53{out: &route53.ListHostedZonesOutput{
		HostedZones: []r53types.HostedZone{
			{Name: aws.String("alpha.example.com.")},
			{Name: aws.String("beta.example.com.")},
		},
	}}
	res := NewHostedZonesTool(client).List(context.Background())

	assertOK(t, res, "alpha.example.com.", "beta.example.com.")
	if want := "Route 53 Hosted Zones: [alpha.example.com., beta.example.com.]"; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
}

func TestHostedZonesTool_Error(t *testing.T) {
	t.Parallel()

	client := &fakeRoute53{err: errors.New("AccessDenied: not authorized")}
	res := NewHostedZonesTool(client).List(context.Background())

	assertFailed(t, res, KindProvider, "Error listing Route 53 hosted zones", "AccessDenied: not authorized")
}

// ── EC2 ─────────────────────────────────────────────────────────────────────

func TestInstanceTypeTool_Found(t *testing.T) {
	t.Parallel()

	client := &fakeEC2{out: &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{
			Instances: []ec2types.Instance{
				{InstanceType: ec2types.InstanceType("t3.micro")},
				{InstanceType: ec2types.InstanceType("m5.large")},
			},
		}},
	}}
	res := NewInstanceTypeTool(client).Lookup(context.Background(), "10.0.1.112")

	assertOK(t, res, "t3.micro")
	if strings.Contains(res.Output, "m5.large") {
		t.Errorf("only the first instance should be reported, got %q", res.Output)
	}
	if want := "EC2 instance 10.0.1.112 is of type: t3.micro"; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}

	if len(client.gotFilters) != 1 {
		t.Fatalf("filters = %d, want 1", len(client.gotFilters))
	}
	f := client.gotFilters[0]
	if aws.ToString(f.Name) != "private-ip-address" || len(f.Values) != 1 || f.Values[0] != "10.0.1.112" {
		t.Errorf("filter = %s=%v, want private-ip-address=[10.0.1.112]", aws.ToString(f.Name), f.Values)
	}
}

func TestInstanceTypeTool_NotFound(t *testing.T) {
	t.Parallel()

	client := &fakeEC2{out: &ec2.DescribeInstancesOutput{}}
	res := NewInstanceTypeTool(client).Lookup(context.Background(), "not-an-ip")

	assertOK(t, res)
	if want := "No EC2 instance found with IP address: not-an-ip"; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
}

func TestInstanceTypeTool_Error(t *testing.T) {
	t.Parallel()

	client := &fakeEC2{err: errors.New("UnauthorizedOperation")}
	res := NewInstanceTypeTool(client).Lookup(context.Background(), "10.0.1.112")

	assertFailed(t, res, KindProvider, "Error getting EC2 instance size", "UnauthorizedOperation")
}

func TestInstanceTypeTool_CallDecodesArguments(t *testing.T) {
	t.Parallel()

	client := &fakeEC2{out: &ec2.DescribeInstancesOutput{}}
	res := NewInstanceTypeTool(client).Call(context.Background(), `{"instance_ip":"10.9.9.9"}`)

	assertOK(t, res, "10.9.9.9")
	if got := client.gotFilters[0].Values[0]; got != "10.9.9.9" {
		t.Errorf("filter value = %q, want 10.9.9.9", got)
	}
}

// ── IAM ─────────────────────────────────────────────────────────────────────

func TestUserPoliciesTool_List(t *testing.T) {
	t.Parallel()

	client := &fakeIAM{out: &iam.ListAttachedUserPoliciesOutput{
		AttachedPolicies: []iamtypes.AttachedPolicy{
			{PolicyName: aws.String("ReadOnlyAccess")},
			{PolicyName: aws.String("IAMUserChangePassword")},
		},
	}}
	res := NewUserPoliciesTool(client).List(context.Background(), "take-home-coding")

	assertOK(t, res, "take-home-coding", "ReadOnlyAccess", "IAMUserChangePassword")
	if want := "IAM user 'take-home-coding' has these policies: [ReadOnlyAccess, IAMUserChangePassword]"; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
	if client.gotUser != "take-home-coding" {
		t.Errorf("UserName = %q, want take-home-coding", client.gotUser)
	}
}

func TestUserPoliciesTool_Error(t *testing.T) {
	t.Parallel()

	client := &fakeIAM{err: errors.New("NoSuchEntity: user not found")}
	res := NewUserPoliciesTool(client).List(context.Background(), "ghost")

	assertFailed(t, res, KindProvider, "Error getting user permissions", "NoSuchEntity: user not found")
}

// ── S3 ──────────────────────────────────────────────────────────────────────

func TestBucketsTool_List(t *testing.T) {
	t.Parallel()

	var calls int
	client := &fakeS3{out: &s3.ListBucketsOutput{
		Buckets: []s3types.Bucket{
			{Name: aws.String("logs-bucket")},
			{Name: aws.String("assets-bucket")},
		},
	}}
	bt := NewBucketsTool(s3Factory(client, nil, &calls))

	res := bt.List(context.Background())
	assertOK(t, res, "logs-bucket", "assets-bucket")
	if want := "S3 Buckets: [logs-bucket, assets-bucket]"; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}

	bt.List(context.Background())
	if calls != 2 {
		t.Errorf("factory calls = %d, want one per listing (2)", calls)
	}
}

func TestBucketsTool_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		client     *fakeS3
		factoryErr error
		cause      string
	}{
		{
			name:   "api error",
			client: &fakeS3{err: errors.New("InvalidAccessKeyId")},
			cause:  "InvalidAccessKeyId",
		},
		{
			name:       "client construction error",
			factoryErr: errors.New("failed to load AWS config: bad profile"),
			cause:      "bad profile",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var calls int
			res := NewBucketsTool(s3Factory(tc.client, tc.factoryErr, &calls)).List(context.Background())
			assertFailed(t, res, KindProvider, "Error listing S3 buckets", tc.cause)
		})
	}
}

func TestInvokableRun_NeverReturnsError(t *testing.T) {
	t.Parallel()

	var calls int
	ts := []Tool{
		NewHostedZonesTool(&fakeRoute53{err: errors.New("boom")}),
		NewInstanceTypeTool(&fakeEC2{err: errors.New("boom")}),
		NewUserPoliciesTool(&fakeIAM{err: errors.New("boom")}),
		NewBucketsTool(s3Factory(nil, errors.New("boom"), &calls)),
		NewCLITool(&fakeRunner{err: errors.New("boom")}, cloud.Credentials{}),
	}

	for _, tl := range ts {
		t.Run(tl.Name(), func(t *testing.T) {
			t.Parallel()
			out, err := tl.InvokableRun(context.Background(), `{}`)
			if err != nil {
				t.Fatalf("InvokableRun() error = %v, want nil", err)
			}
			if !strings.HasPrefix(out, "Error") || !strings.Contains(out, "boom") {
				t.Errorf("InvokableRun() = %q, want rendered error containing boom", out)
			}
		})
	}
}

func TestCall_InvalidJSON(t *testing.T) {
	t.Parallel()

	res := NewUserPoliciesTool(&fakeIAM{}).Call(context.Background(), `{not json`)
	if res.OK() || res.Err.Kind != KindInput {
		t.Fatalf("Call() = %+v, want KindInput failure", res)
	}
	if !strings.Contains(res.String(), "get_user_permissions: invalid input") {
		t.Errorf("String() = %q, want tool name and invalid input", res.String())
	}
}
