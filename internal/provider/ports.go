// Where: internal/provider/ports.go
// What: Port definitions for cloud provider access.
// Why: Allow the stopper and config loader to run against fakes in tests.
package provider

import "context"

// InstanceAPI lists and stops compute instances.
type InstanceAPI interface {
	ListInstances(ctx context.Context, states []string) ([]Instance, error)
	StopInstances(ctx context.Context, ids []string) error
}

// ObjectAPI reads objects from blob storage.
type ObjectAPI interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ClientFactory builds provider clients.
type ClientFactory interface {
	Instances(ctx context.Context) (InstanceAPI, error)
	Objects(ctx context.Context) (ObjectAPI, error)
}
