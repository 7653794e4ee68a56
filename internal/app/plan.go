// Where: internal/app/plan.go
// What: plan and run command handlers.
// Why: Show matches before stopping and confirm interactive runs.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rowdens/instance-stopper/internal/stopper"
	"github.com/rowdens/instance-stopper/internal/ui"
)

// runPlan prints the instances the policy currently selects.
func runPlan(cli CLI, deps Dependencies, out io.Writer) int {
	ctx := context.Background()
	sess, err := newSession(ctx, cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	defer func() { _ = sess.logger.Sync() }()

	s, err := sess.newStopper(ctx, false)
	if err != nil {
		return exitWithError(out, err)
	}
	targets, err := s.Plan(ctx)
	if err != nil {
		return exitWithError(out, err)
	}
	printTargets(ui.New(out), sess, targets)
	return 0
}

// runRun stops the planned targets after confirmation.
func runRun(cli CLI, deps Dependencies, out io.Writer) int {
	ctx := context.Background()
	sess, err := newSession(ctx, cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	defer func() { _ = sess.logger.Sync() }()

	s, err := sess.newStopper(ctx, cli.Run.DryRun)
	if err != nil {
		return exitWithError(out, err)
	}
	targets, err := s.Plan(ctx)
	if err != nil {
		return exitWithError(out, err)
	}

	console := ui.New(out)
	printTargets(console, sess, targets)
	if len(targets) == 0 {
		return 0
	}

	if !sess.policy.DryRun && !cli.Run.Yes {
		if deps.Prompter == nil {
			return exitWithError(out, fmt.Errorf("confirmation required: pass --yes to stop without prompting"))
		}
		confirmed, err := deps.Prompter.Confirm(fmt.Sprintf("Stop %d instance(s)?", len(targets)))
		if err != nil {
			return exitWithError(out, err)
		}
		if !confirmed {
			console.Warn("aborted, no instances stopped")
			return 1
		}
	}

	result, err := s.Stop(ctx, targets)
	if err != nil {
		if len(result.Stopped) > 0 {
			console.Warn(fmt.Sprintf("stopped before failure: %v", result.Stopped))
		}
		console.Error(err.Error())
		return 1
	}
	if result.DryRun {
		console.Success(fmt.Sprintf("dry run: %d instance(s) would be stopped", len(result.Matched)))
		return 0
	}
	console.Success(fmt.Sprintf("stop requested for %d instance(s)", len(result.Stopped)))
	return 0
}

func printTargets(console *ui.Console, sess session, targets []stopper.Target) {
	console.Info(fmt.Sprintf("match %q on tag %s (states: %v)", sess.policy.Match, sess.policy.TagKey, sess.policy.States))
	if len(targets) == 0 {
		console.Success("no matching instances")
		return
	}
	console.BlockStart("🖥", "Matching instances")
	for _, target := range targets {
		console.Item(target.ID, target.Name)
	}
	console.BlockEnd()
}
