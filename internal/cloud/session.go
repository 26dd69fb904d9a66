// Package cloud holds the AWS credential triple and the service handles the
// tools call into. A Session is built once at command start and passed to
// every tool; nothing here performs network I/O at construction time.
package cloud

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Environment variable names the credential triple is read from.
const (
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
	EnvRegion    = "REGION_NAME"
)

// Credentials is the static credential triple shared by every service handle
// and by the aws CLI subprocess.
type Credentials struct {
	// AccessKeyID is the AWS access key id.
	AccessKeyID string
	// SecretAccessKey is the AWS secret access key.
	SecretAccessKey string
	// Region is the AWS region the handles are bound to.
	Region string
}

// CredentialsFromEnv reads the credential triple from the process environment.
// Missing variables are passed through as empty strings; the SDK reports the
// problem on first use.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AccessKeyID:     os.Getenv(EnvAccessKey),
		SecretAccessKey: os.Getenv(EnvSecretKey),
		Region:          os.Getenv(EnvRegion),
	}
}

// Env returns the KEY=VALUE overrides the aws CLI expects.
func (c Credentials) Env() []string {
	return []string{
		"AWS_ACCESS_KEY_ID=" + c.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY=" + c.SecretAccessKey,
		"AWS_DEFAULT_REGION=" + c.Region,
	}
}

// provider returns a cached static credentials provider for c.
func (c Credentials) provider() aws.CredentialsProvider {
	return aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""))
}

// EC2API is the subset of the EC2 client used by the tools.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// Route53API is the subset of the Route 53 client used by the tools.
type Route53API interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
}

// IAMAPI is the subset of the IAM client used by the tools.
type IAMAPI interface {
	ListAttachedUserPolicies(ctx context.Context, params *iam.ListAttachedUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedUserPoliciesOutput, error)
}

// S3API is the subset of the S3 client used by the tools.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// S3Factory constructs a fresh S3 handle. It is invoked on every bucket
// listing, so the storage handle is never shared across calls.
type S3Factory func(ctx context.Context) (S3API, error)

// Session carries the credential triple and the long-lived service handles.
// It is read-only after construction.
type Session struct {
	// Credentials is the triple the handles were built from.
	Credentials Credentials

	// EC2 is the compute service handle.
	EC2 EC2API

	// Route53 is the DNS service handle.
	Route53 Route53API

	// IAM is the identity service handle.
	IAM IAMAPI

	// NewS3 builds a storage handle per call.
	NewS3 S3Factory
}

// NewSession builds the EC2, Route 53 and IAM handles from creds. The S3
// handle is left to NewS3 so each bucket listing gets its own client.
func NewSession(creds Credentials) *Session {
	cfg := aws.Config{
		Region:      creds.Region,
		Credentials: creds.provider(),
	}

	return &Session{
		Credentials: creds,
		EC2:         ec2.NewFromConfig(cfg),
		Route53:     route53.NewFromConfig(cfg),
		IAM:         iam.NewFromConfig(cfg),
		NewS3:       s3FactoryFor(creds),
	}
}

// s3FactoryFor returns an S3Factory that loads a fresh SDK config with the
// static credentials on every call.
func s3FactoryFor(creds Credentials) S3Factory {
	return func(ctx context.Context) (S3API, error) {
		awsCfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion(creds.Region),
			config.WithCredentialsProvider(creds.provider()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return s3.NewFromConfig(awsCfg), nil
	}
}
