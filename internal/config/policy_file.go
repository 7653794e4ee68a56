// Where: internal/config/policy_file.go
// What: Policy file parsing, schema validation, and source resolution.
// Why: Load policy overrides from a local path or an S3 object.
package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rowdens/instance-stopper/internal/constants"
	"github.com/rowdens/instance-stopper/internal/provider"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

const (
	s3Scheme       = "s3://"
	policySchemaID = "mem://instance-stopper/policy_schema.json"
)

//go:embed policy_schema.json
var policySchemaSource string

var (
	policySchemaOnce sync.Once
	policySchemaErr  error
	policySchema     *jsonschema.Schema
)

// policyFile mirrors the YAML layout. Pointer fields distinguish absent
// keys from zero values.
type policyFile struct {
	Match  *string  `yaml:"match"`
	TagKey *string  `yaml:"tag_key"`
	States []string `yaml:"states"`
	DryRun *bool    `yaml:"dry_run"`
}

// LoadOptions controls where Load reads policy overrides from.
type LoadOptions struct {
	// Source is a local path or s3://bucket/key. Empty falls back to
	// STOPPER_CONFIG.
	Source string

	// Objects opens the object store for s3:// sources.
	Objects func(ctx context.Context) (provider.ObjectAPI, error)
	Getenv  func(string) string
}

// Load resolves the effective policy: defaults, then the policy file, then
// environment overrides.
func Load(ctx context.Context, opts LoadOptions) (Policy, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	policy := Default()
	source := strings.TrimSpace(opts.Source)
	if source == "" {
		source = strings.TrimSpace(getenv(constants.EnvConfig))
	}
	if source != "" {
		data, err := readSource(ctx, source, opts.Objects)
		if err != nil {
			return Policy{}, err
		}
		policy, err = ParsePolicy(data, policy)
		if err != nil {
			return Policy{}, fmt.Errorf("policy %s: %w", source, err)
		}
	}

	policy, err := policy.ApplyEnv(getenv)
	if err != nil {
		return Policy{}, err
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// ParsePolicy validates YAML policy content and merges it over base.
func ParsePolicy(data []byte, base Policy) (Policy, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return base, nil
	}
	if err := validatePolicyDocument(data); err != nil {
		return Policy{}, err
	}

	var file policyFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	if file.Match != nil {
		base.Match = *file.Match
	}
	if file.TagKey != nil {
		base.TagKey = *file.TagKey
	}
	if len(file.States) > 0 {
		base.States = append([]string(nil), file.States...)
	}
	if file.DryRun != nil {
		base.DryRun = *file.DryRun
	}
	return base, nil
}

func validatePolicyDocument(data []byte) error {
	sch, err := loadPolicySchema()
	if err != nil {
		return err
	}

	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(document)
}

func loadPolicySchema() (*jsonschema.Schema, error) {
	policySchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(policySchemaID, strings.NewReader(policySchemaSource)); err != nil {
			policySchemaErr = err
			return
		}
		policySchema, policySchemaErr = compiler.Compile(policySchemaID)
	})
	return policySchema, policySchemaErr
}

func readSource(
	ctx context.Context,
	source string,
	objects func(ctx context.Context) (provider.ObjectAPI, error),
) ([]byte, error) {
	if !strings.HasPrefix(source, s3Scheme) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read policy: %w", err)
		}
		return data, nil
	}

	bucket, key, err := parseS3URI(source)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		return nil, fmt.Errorf("object store not configured for %s", source)
	}
	client, err := objects(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetObject(ctx, bucket, key)
}

func parseS3URI(source string) (string, string, error) {
	rest := strings.TrimPrefix(source, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: expected s3://bucket/key", source)
	}
	return bucket, key, nil
}
