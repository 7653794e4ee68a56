// Where: internal/config/policy.go
// What: Stop policy definition and environment overrides.
// Why: Keep the match rule configurable while defaulting to the fixed literal.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rowdens/instance-stopper/internal/constants"
	"github.com/rowdens/instance-stopper/internal/provider"
)

const (
	DefaultMatch  = "RowdensTEST - holden"
	DefaultTagKey = "Name"
)

// Policy selects which instances a scan stops.
type Policy struct {
	Match  string
	TagKey string
	States []string
	DryRun bool
}

// Default returns the built-in policy: running instances whose Name tag
// contains DefaultMatch.
func Default() Policy {
	return Policy{
		Match:  DefaultMatch,
		TagKey: DefaultTagKey,
		States: []string{provider.StateRunning},
	}
}

// Matches reports whether name selects an instance. Case-sensitive.
func (p Policy) Matches(name string) bool {
	return p.Match != "" && strings.Contains(name, p.Match)
}

// Validate checks that the policy cannot select every instance by accident.
func (p Policy) Validate() error {
	if p.Match == "" {
		return fmt.Errorf("match substring is required")
	}
	if strings.TrimSpace(p.TagKey) == "" {
		return fmt.Errorf("tag key is required")
	}
	if len(p.States) == 0 {
		return fmt.Errorf("at least one instance state is required")
	}
	return nil
}

// ApplyEnv overrides policy fields from environment variables.
func (p Policy) ApplyEnv(getenv func(string) string) (Policy, error) {
	if getenv == nil {
		return p, nil
	}
	// The match value is not trimmed: surrounding spaces are part of the text.
	if value := getenv(constants.EnvMatch); value != "" {
		p.Match = value
	}
	if value := strings.TrimSpace(getenv(constants.EnvTagKey)); value != "" {
		p.TagKey = value
	}
	if value := strings.TrimSpace(getenv(constants.EnvStates)); value != "" {
		p.States = splitList(value)
	}
	if value := strings.TrimSpace(getenv(constants.EnvDryRun)); value != "" {
		dryRun, err := strconv.ParseBool(value)
		if err != nil {
			return p, fmt.Errorf("invalid %s: %w", constants.EnvDryRun, err)
		}
		p.DryRun = dryRun
	}
	return p, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
