// Where: internal/app/invoke.go
// What: invoke command handler.
// Why: Exercise the function handler locally with the same response contract.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rowdens/instance-stopper/internal/handler"
)

func runInvoke(cli CLI, deps Dependencies, out io.Writer) int {
	ctx := context.Background()
	sess, err := newSession(ctx, cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	defer func() { _ = sess.logger.Sync() }()

	h := handler.New(sess.clients, sess.logger)
	h.Getenv = sess.getenv
	resp, err := h.Handle(ctx, json.RawMessage(`{}`))
	if err != nil {
		return exitWithError(out, err)
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintln(out, string(data))
	if resp.StatusCode != handler.StatusOK {
		return 1
	}
	return 0
}
