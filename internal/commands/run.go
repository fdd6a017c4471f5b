package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskprobe/internal/config"
	"taskprobe/internal/exerciser"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

func init() {
	Register(&RunCmd{})
}

// RunCmd implements the run command.
// Handles both `taskprobe` (no args) and `taskprobe run`.
type RunCmd struct {
	reportPath string
}

// SetReportPath sets the report path (for testing).
func (c *RunCmd) SetReportPath(path string) {
	c.reportPath = path
}

func (c *RunCmd) Name() string       { return "run" }
func (c *RunCmd) Aliases() []string  { return nil }
func (c *RunCmd) Synopsis() string   { return "Run the CRUD smoke sequence" }
func (c *RunCmd) Usage() string      { return "taskprobe run [--report <file>]" }
func (c *RunCmd) NeedsBackend() bool { return true }

func (c *RunCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.reportPath, "report", "", "")
}

func (c *RunCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	result, runErr := exerciser.Run(ctx, svc, exerciser.Options{Quiet: cfg.Quiet}, out)

	// The report is written even when the run aborted.
	if c.reportPath != "" {
		if err := writeReport(c.reportPath, result); err != nil {
			fmt.Fprintf(errOut, "error: failed to write report: %v\n", err)
			return exitcode.UserError
		}
	}

	if runErr != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", runErr)
		return exitcode.BackendError
	}
	return exitcode.Success
}
