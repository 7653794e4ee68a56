// Where: internal/provider/errors.go
// What: Error inspection helpers for SDK failures.
// Why: Surface AWS error codes in log fields without leaking SDK types.
package provider

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode returns the AWS API error code wrapped in err, or "" if none.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
