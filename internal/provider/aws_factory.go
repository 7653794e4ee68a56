// Where: internal/provider/aws_factory.go
// What: AWS client factory for EC2 and S3.
// Why: Encapsulate SDK configuration, including local endpoint overrides.
package provider

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rowdens/instance-stopper/internal/constants"
)

const defaultAWSRegion = "us-east-1"

// AWSClientFactory builds SDK-backed clients. Empty fields fall back to
// the environment.
type AWSClientFactory struct {
	Region      string
	EC2Endpoint string
	S3Endpoint  string
}

// NewClientFactory returns a factory configured from the environment.
func NewClientFactory() AWSClientFactory {
	return AWSClientFactory{
		Region:      os.Getenv(constants.EnvAWSRegion),
		EC2Endpoint: os.Getenv(constants.EnvEC2Endpoint),
		S3Endpoint:  os.Getenv(constants.EnvS3Endpoint),
	}
}

func (f AWSClientFactory) Instances(ctx context.Context) (InstanceAPI, error) {
	endpoint := strings.TrimSpace(f.EC2Endpoint)
	cfg, err := loadAWSConfig(ctx, f.Region, endpoint != "")
	if err != nil {
		return nil, err
	}
	client := ec2.NewFromConfig(cfg, func(options *ec2.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})
	return awsEC2Client{client: client}, nil
}

func (f AWSClientFactory) Objects(ctx context.Context) (ObjectAPI, error) {
	endpoint := strings.TrimSpace(f.S3Endpoint)
	cfg, err := loadAWSConfig(ctx, f.Region, endpoint != "")
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

func loadAWSConfig(ctx context.Context, region string, local bool) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(resolveRegion(region)),
	}
	// Static keys only apply to local emulators; real accounts use the
	// default chain (execution role, profile, env).
	if local {
		if accessKey, secretKey := staticKeys(); accessKey != "" && secretKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			))
		}
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}

func resolveRegion(region string) string {
	if region = strings.TrimSpace(region); region != "" {
		return region
	}
	if region = strings.TrimSpace(os.Getenv(constants.EnvAWSRegion)); region != "" {
		return region
	}
	return defaultAWSRegion
}

func staticKeys() (string, string) {
	return strings.TrimSpace(os.Getenv(constants.EnvAccessKey)),
		strings.TrimSpace(os.Getenv(constants.EnvSecretKey))
}
