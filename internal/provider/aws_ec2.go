// Where: internal/provider/aws_ec2.go
// What: AWS SDK adapter for EC2 instance listing and stopping.
// Why: Map SDK reservation/instance types to provider records.
package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const instanceStateFilter = "instance-state-name"

// ec2API is the subset of *ec2.Client used by the adapter.
type ec2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

type awsEC2Client struct {
	client ec2API
}

func (c awsEC2Client) ListInstances(ctx context.Context, states []string) ([]Instance, error) {
	if c.client == nil {
		return nil, fmt.Errorf("ec2 client is nil")
	}
	input := &ec2.DescribeInstancesInput{}
	if len(states) > 0 {
		input.Filters = []types.Filter{{
			Name:   aws.String(instanceStateFilter),
			Values: states,
		}}
	}

	var out []Instance
	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}
		out = append(out, mapReservations(page.Reservations)...)
	}
	return out, nil
}

func (c awsEC2Client) StopInstances(ctx context.Context, ids []string) error {
	if c.client == nil {
		return fmt.Errorf("ec2 client is nil")
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: ids}); err != nil {
		return fmt.Errorf("stop instances %v: %w", ids, err)
	}
	return nil
}

func mapReservations(reservations []types.Reservation) []Instance {
	var out []Instance
	for _, reservation := range reservations {
		for _, item := range reservation.Instances {
			out = append(out, mapInstance(item))
		}
	}
	return out
}

func mapInstance(item types.Instance) Instance {
	inst := Instance{ID: aws.ToString(item.InstanceId)}
	if item.State != nil {
		inst.State = string(item.State.Name)
	}
	if len(item.Tags) > 0 {
		inst.Tags = make([]Tag, 0, len(item.Tags))
		for _, tag := range item.Tags {
			inst.Tags = append(inst.Tags, Tag{
				Key:   aws.ToString(tag.Key),
				Value: aws.ToString(tag.Value),
			})
		}
	}
	return inst
}
