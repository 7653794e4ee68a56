// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Stop policy
	EnvMatch    = "STOPPER_MATCH"
	EnvTagKey   = "STOPPER_TAG_KEY"
	EnvStates   = "STOPPER_STATES"
	EnvDryRun   = "STOPPER_DRY_RUN"
	EnvConfig   = "STOPPER_CONFIG"
	EnvLogLevel = "STOPPER_LOG_LEVEL"

	// AWS access
	EnvAWSRegion   = "AWS_REGION"
	EnvEC2Endpoint = "STOPPER_EC2_ENDPOINT"
	EnvS3Endpoint  = "STOPPER_S3_ENDPOINT"
	EnvAccessKey   = "STOPPER_ACCESS_KEY"
	EnvSecretKey   = "STOPPER_SECRET_KEY"
)
