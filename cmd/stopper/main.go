// Where: cmd/stopper/main.go
// What: Lambda function entrypoint.
// Why: Run the instance stopper under the Lambda Go runtime.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	h, err := buildHandler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = h.Logger.Sync() }()

	lambda.Start(h.Handle)
}
