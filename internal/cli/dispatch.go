// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"taskprobe/internal/commands"
	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/logging"
	"taskprobe/internal/service"
)

// ServiceFactory creates the backend for commands that talk to the task API.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher maps the first argument to a registered command and runs it.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher returns a Dispatcher over registry that builds backends with factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// Run dispatches args and returns the process exit code.
// With no arguments the default command runs.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name, rest := commands.DefaultCommand, []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	// Flags belong to a command, so a leading flag is not a command name.
	cmd, ok := d.registry.Find(name)
	if strings.HasPrefix(name, "-") || !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.runCommand(ctx, cmd, rest, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	envFile string
	baseURL string
	token   string
	timeout time.Duration
	quiet   bool
	debug   bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.envFile, "env", "", "")
	fs.StringVar(&f.baseURL, "base-url", "", "")
	fs.StringVar(&f.token, "token", "", "")
	fs.DurationVar(&f.timeout, "timeout", 0, "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.quiet, "q", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// config resolves settings from the env file and environment, then applies
// the flags that were given.
func (f *commonFlags) config() (*config.Config, error) {
	cfg, err := config.New(f.envFile)
	if err != nil {
		return nil, err
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.token != "" {
		cfg.Token = f.token
	}
	if f.timeout != 0 {
		cfg.Timeout = f.timeout
	}
	cfg.Quiet = f.quiet
	cfg.Debug = f.debug
	return cfg, nil
}

func (d *Dispatcher) runCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A dash-prefixed token after "--" still looks like a flag to the user.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := common.config()
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	log := logging.New(errOut, cfg.Debug)
	ctx = logr.NewContext(ctx, log)

	var svc service.Service
	if cmd.NeedsBackend() {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
		log.V(1).Info("using server", "baseURL", cfg.BaseURL, "timeout", cfg.Timeout.String(), "token", cfg.Token != "")

		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	if name, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return "flag needs an argument: " + name
	}
	return msg
}
