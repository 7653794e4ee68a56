// Where: internal/app/app.go
// What: stopctl entrypoint logic.
// Why: Provide a testable command dispatcher around the stopper.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rowdens/instance-stopper/internal/logging"
	"github.com/rowdens/instance-stopper/internal/provider"
	"github.com/rowdens/instance-stopper/internal/version"
	"go.uber.org/zap"
)

// Dependencies holds all injected dependencies required for command execution.
type Dependencies struct {
	Out       io.Writer
	Getenv    func(string) string
	Clients   func(cli CLI) provider.ClientFactory
	NewLogger func(level string) (*zap.Logger, error)
	Prompter  Prompter
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config   string `short:"c" help:"Policy file (local path or s3://bucket/key)"`
	Match    string `short:"m" help:"Name substring to match (overrides policy)"`
	Region   string `help:"AWS region"`
	Endpoint string `help:"EC2 endpoint override for local emulators"`
	EnvFile  string `name:"env-file" help:"Path to .env file"`
	LogLevel string `name:"log-level" default:"warn" help:"Log level (debug, info, warn, error)"`

	Plan    PlanCmd    `cmd:"" help:"List running instances that match the policy"`
	Run     RunCmd     `cmd:"" help:"Stop instances that match the policy"`
	Invoke  InvokeCmd  `cmd:"" help:"Invoke the function handler locally"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type PlanCmd struct{}

type RunCmd struct {
	Yes    bool `short:"y" help:"Skip confirmation prompt"`
	DryRun bool `name:"dry-run" help:"Log matches without stopping them"`
}

type InvokeCmd struct{}

type VersionCmd struct{}

// Run parses args and dispatches to the matching command.
// Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("stopctl"),
		kong.Description("Stop running instances whose name tag matches a substring."),
		kong.Writers(out, out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	loadEnvFile(cli.EnvFile, out)

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"plan":    runPlan,
		"run":     runRun,
		"invoke":  runInvoke,
		"version": func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}
	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

// loadEnvFile loads the given env file, or .env from the working directory
// when present. Existing environment variables win.
func loadEnvFile(path string, out io.Writer) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", path, err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}
}

func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}

// DefaultDependencies wires AWS clients, the console logger, and the huh prompter.
func DefaultDependencies(out io.Writer) Dependencies {
	return Dependencies{
		Out:    out,
		Getenv: os.Getenv,
		Clients: func(cli CLI) provider.ClientFactory {
			factory := provider.NewClientFactory()
			if cli.Region != "" {
				factory.Region = cli.Region
			}
			if cli.Endpoint != "" {
				factory.EC2Endpoint = cli.Endpoint
			}
			return factory
		},
		NewLogger: func(level string) (*zap.Logger, error) {
			return logging.New(logging.Options{Level: level, Console: true})
		},
		Prompter: HuhPrompter{},
	}
}
