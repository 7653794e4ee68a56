// Where: internal/app/session.go
// What: Per-command resolution of logger, clients, and policy.
// Why: Share flag/env precedence between plan, run, and invoke.
package app

import (
	"context"
	"errors"
	"os"

	"github.com/rowdens/instance-stopper/internal/config"
	"github.com/rowdens/instance-stopper/internal/constants"
	"github.com/rowdens/instance-stopper/internal/provider"
	"github.com/rowdens/instance-stopper/internal/stopper"
	"go.uber.org/zap"
)

type session struct {
	policy  config.Policy
	clients provider.ClientFactory
	logger  *zap.Logger
	getenv  func(string) string
}

func newSession(ctx context.Context, cli CLI, deps Dependencies) (session, error) {
	if deps.Clients == nil {
		return session{}, errors.New("client factory not configured")
	}
	logger := zap.NewNop()
	if deps.NewLogger != nil {
		built, err := deps.NewLogger(cli.LogLevel)
		if err != nil {
			return session{}, err
		}
		logger = built
	}

	return session{
		clients: deps.Clients(cli),
		logger:  logger,
		getenv:  flagEnv(cli, deps.Getenv),
	}, nil
}

// newStopper resolves the policy and builds a stopper over the instance client.
func (s *session) newStopper(ctx context.Context, dryRun bool) (*stopper.Stopper, error) {
	policy, err := config.Load(ctx, config.LoadOptions{
		Objects: s.clients.Objects,
		Getenv:  s.getenv,
	})
	if err != nil {
		return nil, err
	}
	if dryRun {
		policy.DryRun = true
	}
	s.policy = policy

	client, err := s.clients.Instances(ctx)
	if err != nil {
		return nil, err
	}
	return stopper.New(client, policy, s.logger), nil
}

// flagEnv layers --config and --match over the process environment so the
// CLI and the function handler resolve policy the same way.
func flagEnv(cli CLI, getenv func(string) string) func(string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	return func(key string) string {
		switch {
		case key == constants.EnvConfig && cli.Config != "":
			return cli.Config
		case key == constants.EnvMatch && cli.Match != "":
			return cli.Match
		}
		return getenv(key)
	}
}
