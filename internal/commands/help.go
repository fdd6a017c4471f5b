package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskprobe help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskprobe                                          Run the CRUD smoke sequence
  taskprobe run [common flags] [--report <file>]     Run the CRUD smoke sequence
  taskprobe check [common flags] [--report <file>] [<check>...]
  taskprobe create [common flags] --description <text> <title...>
  taskprobe add [common flags] --description <text> <title...>
  taskprobe list [common flags]
  taskprobe update [common flags] [--title <text>] [--description <text>] <id>
  taskprobe delete [common flags] <id>
  taskprobe help
  taskprobe version

Checks:
  create-roundtrip, count-delta, update-isolation, delete-removes, delete-missing

Common flags:
  --base-url <url>     Task API address (default http://localhost:5001)
  --token <token>      Bearer token sent with every request
  --timeout <dur>      Per-request timeout (default 10s)
  --env <file>         Read settings from this env file instead of ./.env
  --quiet, -q          Suppress informational output
  --debug              Print debug logs to stderr

Environment:
  TASKPROBE_BASE_URL, TASKPROBE_TOKEN, TASKPROBE_TIMEOUT
`
