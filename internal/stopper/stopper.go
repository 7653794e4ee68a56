// Where: internal/stopper/stopper.go
// What: Scan, filter, and stop loop for tagged instances.
// Why: Keep the stop rule independent from the Lambda and CLI entrypoints.
package stopper

import (
	"context"
	"errors"
	"fmt"

	"github.com/rowdens/instance-stopper/internal/config"
	"github.com/rowdens/instance-stopper/internal/provider"
	"go.uber.org/zap"
)

// Target is an instance selected by the policy.
type Target struct {
	ID   string
	Name string
}

// Result summarises a scan. Stopped lists ids whose stop request succeeded,
// in request order, including when Run returns an error part way through.
type Result struct {
	Scanned int
	Matched []Target
	Stopped []string
	DryRun  bool
}

// Stopper stops every instance whose name tag contains the policy match.
type Stopper struct {
	Client provider.InstanceAPI
	Policy config.Policy
	Logger *zap.Logger
}

// New constructs a Stopper. A nil logger discards output.
func New(client provider.InstanceAPI, policy config.Policy, logger *zap.Logger) *Stopper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stopper{Client: client, Policy: policy, Logger: logger}
}

// Plan lists instances and returns the ones the policy selects without
// stopping anything.
func (s *Stopper) Plan(ctx context.Context) ([]Target, error) {
	targets, _, err := s.scan(ctx)
	return targets, err
}

// Run scans and stops each selected instance with its own request, in
// listing order. The first failure aborts the scan; earlier stops are not
// undone.
func (s *Stopper) Run(ctx context.Context) (Result, error) {
	targets, scanned, err := s.scan(ctx)
	if err != nil {
		return Result{Scanned: scanned, DryRun: s.Policy.DryRun}, err
	}
	result, err := s.Stop(ctx, targets)
	result.Scanned = scanned
	return result, err
}

// Stop issues one stop request per target, in order, honouring DryRun.
func (s *Stopper) Stop(ctx context.Context, targets []Target) (Result, error) {
	result := Result{Matched: targets, DryRun: s.Policy.DryRun}
	if s.Client == nil {
		return result, errors.New("instance client not configured")
	}

	for _, target := range targets {
		fields := []zap.Field{zap.String("instance_id", target.ID), zap.String("name", target.Name)}
		if s.Policy.DryRun {
			s.logger().Info("dry run: would stop instance", fields...)
			continue
		}

		s.logger().Info("stopping instance", fields...)
		if err := s.Client.StopInstances(ctx, []string{target.ID}); err != nil {
			return result, fmt.Errorf("stop %s: %w", target.ID, err)
		}
		result.Stopped = append(result.Stopped, target.ID)
		s.logger().Info("instance stopped", fields...)
	}
	return result, nil
}

func (s *Stopper) scan(ctx context.Context) ([]Target, int, error) {
	if s == nil || s.Client == nil {
		return nil, 0, errors.New("instance client not configured")
	}
	if err := s.Policy.Validate(); err != nil {
		return nil, 0, err
	}

	instances, err := s.Client.ListInstances(ctx, s.Policy.States)
	if err != nil {
		return nil, 0, fmt.Errorf("list instances: %w", err)
	}

	var targets []Target
	for _, inst := range instances {
		name := inst.TagValue(s.Policy.TagKey)
		if !s.Policy.Matches(name) {
			continue
		}
		targets = append(targets, Target{ID: inst.ID, Name: name})
	}
	s.logger().Debug("scan complete",
		zap.Int("scanned", len(instances)),
		zap.Int("matched", len(targets)),
		zap.String("match", s.Policy.Match),
	)
	return targets, len(instances), nil
}

func (s *Stopper) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
