// Where: cmd/stopper/wire.go
// What: Handler dependency wiring.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/rowdens/instance-stopper/internal/constants"
	"github.com/rowdens/instance-stopper/internal/handler"
	"github.com/rowdens/instance-stopper/internal/logging"
	"github.com/rowdens/instance-stopper/internal/provider"
)

var (
	newLogger        = logging.New
	newClientFactory = func() provider.ClientFactory { return provider.NewClientFactory() }
)

// buildHandler constructs the process-wide handler. AWS clients are created
// lazily on the first invocation.
func buildHandler() (*handler.Handler, error) {
	logger, err := newLogger(logging.Options{Level: os.Getenv(constants.EnvLogLevel)})
	if err != nil {
		return nil, err
	}
	return handler.New(newClientFactory(), logger), nil
}
