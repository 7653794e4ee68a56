// Where: cmd/stopctl/main.go
// What: Operator CLI entrypoint.
// Why: Plan, run, or locally invoke the instance stopper.
package main

import (
	"os"

	"github.com/rowdens/instance-stopper/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], app.DefaultDependencies(os.Stdout)))
}
