// Where: internal/provider/aws_ec2_test.go
// What: Tests for the EC2 adapter.
// Why: Ensure SDK responses map to provider records and filters are applied.
package provider

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

type fakeEC2 struct {
	pages         []*ec2.DescribeInstancesOutput
	describeErr   error
	describeCalls []*ec2.DescribeInstancesInput
	stopCalls     [][]string
	stopErr       error
}

func (f *fakeEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.describeCalls = append(f.describeCalls, params)
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	index := len(f.describeCalls) - 1
	if index >= len(f.pages) {
		return &ec2.DescribeInstancesOutput{}, nil
	}
	return f.pages[index], nil
}

func (f *fakeEC2) StopInstances(_ context.Context, params *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	f.stopCalls = append(f.stopCalls, params.InstanceIds)
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return &ec2.StopInstancesOutput{}, nil
}

func ec2Instance(id string, tags ...string) types.Instance {
	inst := types.Instance{
		InstanceId: aws.String(id),
		State:      &types.InstanceState{Name: types.InstanceStateNameRunning},
	}
	for i := 0; i+1 < len(tags); i += 2 {
		inst.Tags = append(inst.Tags, types.Tag{Key: aws.String(tags[i]), Value: aws.String(tags[i+1])})
	}
	return inst
}

func TestListInstancesAppliesStateFilter(t *testing.T) {
	client := &fakeEC2{pages: []*ec2.DescribeInstancesOutput{{}}}

	if _, err := (awsEC2Client{client: client}).ListInstances(context.Background(), []string{StateRunning}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.describeCalls) != 1 {
		t.Fatalf("expected one describe call, got %d", len(client.describeCalls))
	}
	filters := client.describeCalls[0].Filters
	if len(filters) != 1 {
		t.Fatalf("expected one filter, got %d", len(filters))
	}
	if aws.ToString(filters[0].Name) != "instance-state-name" {
		t.Fatalf("unexpected filter name: %s", aws.ToString(filters[0].Name))
	}
	if !reflect.DeepEqual(filters[0].Values, []string{"running"}) {
		t.Fatalf("unexpected filter values: %v", filters[0].Values)
	}
}

func TestListInstancesFollowsPages(t *testing.T) {
	client := &fakeEC2{pages: []*ec2.DescribeInstancesOutput{
		{
			Reservations: []types.Reservation{
				{Instances: []types.Instance{ec2Instance("i-1", "Name", "a"), ec2Instance("i-2")}},
			},
			NextToken: aws.String("page-2"),
		},
		{
			Reservations: []types.Reservation{
				{Instances: []types.Instance{ec2Instance("i-3", "Env", "dev", "Name", "c")}},
			},
		},
	}}

	instances, err := (awsEC2Client{client: client}).ListInstances(context.Background(), []string{StateRunning})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.describeCalls) != 2 {
		t.Fatalf("expected two describe calls, got %d", len(client.describeCalls))
	}
	if aws.ToString(client.describeCalls[1].NextToken) != "page-2" {
		t.Fatalf("expected second call to carry next token")
	}

	want := []Instance{
		{ID: "i-1", State: "running", Tags: []Tag{{Key: "Name", Value: "a"}}},
		{ID: "i-2", State: "running"},
		{ID: "i-3", State: "running", Tags: []Tag{{Key: "Env", Value: "dev"}, {Key: "Name", Value: "c"}}},
	}
	if !reflect.DeepEqual(instances, want) {
		t.Fatalf("unexpected instances:\n got %#v\nwant %#v", instances, want)
	}
}

func TestListInstancesWrapsError(t *testing.T) {
	cause := errors.New("throttled")
	client := &fakeEC2{describeErr: cause}

	_, err := (awsEC2Client{client: client}).ListInstances(context.Background(), []string{StateRunning})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestListInstancesNilClient(t *testing.T) {
	if _, err := (awsEC2Client{}).ListInstances(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestStopInstancesPassesIDs(t *testing.T) {
	client := &fakeEC2{}

	if err := (awsEC2Client{client: client}).StopInstances(context.Background(), []string{"i-9"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(client.stopCalls, [][]string{{"i-9"}}) {
		t.Fatalf("unexpected stop calls: %v", client.stopCalls)
	}
}

func TestStopInstancesSkipsEmpty(t *testing.T) {
	client := &fakeEC2{}

	if err := (awsEC2Client{client: client}).StopInstances(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.stopCalls) != 0 {
		t.Fatalf("expected no stop calls, got %d", len(client.stopCalls))
	}
}

func TestStopInstancesErrorCarriesAPICode(t *testing.T) {
	client := &fakeEC2{stopErr: &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}}

	err := (awsEC2Client{client: client}).StopInstances(context.Background(), []string{"i-9"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if code := ErrorCode(err); code != "UnauthorizedOperation" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestErrorCodeEmptyForPlainErrors(t *testing.T) {
	if code := ErrorCode(fmt.Errorf("wrap: %w", errors.New("boom"))); code != "" {
		t.Fatalf("expected empty code, got %q", code)
	}
}

func TestTagValueReturnsFirstMatch(t *testing.T) {
	inst := Instance{Tags: []Tag{{Key: "Name", Value: "first"}, {Key: "Name", Value: "second"}}}
	if got := inst.TagValue("Name"); got != "first" {
		t.Fatalf("unexpected tag value: %q", got)
	}
	if got := (Instance{}).TagValue("Name"); got != "" {
		t.Fatalf("expected empty tag value, got %q", got)
	}
}
