package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskprobe/internal/checks"
	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/output"
	"taskprobe/internal/service"
)

func init() {
	Register(&CheckCmd{})
}

// CheckCmd implements the check command.
type CheckCmd struct {
	reportPath string
}

func (c *CheckCmd) Name() string       { return "check" }
func (c *CheckCmd) Aliases() []string  { return nil }
func (c *CheckCmd) Synopsis() string   { return "Verify CRUD properties of the server" }
func (c *CheckCmd) Usage() string      { return "taskprobe check [--report <file>] [<check>...]" }
func (c *CheckCmd) NeedsBackend() bool { return true }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.reportPath, "report", "", "")
}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	report, err := checks.Run(ctx, svc, args...)
	if err != nil {
		if errors.Is(err, checks.ErrUnknownCheck) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	for _, res := range report.Results {
		output.FormatCheck(out, res.Name, res.Passed, res.Detail)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "%d/%d checks passed\n", report.PassedCount(), len(report.Results))
	}

	if c.reportPath != "" {
		if err := writeReport(c.reportPath, report); err != nil {
			fmt.Fprintf(errOut, "error: failed to write report: %v\n", err)
			return exitcode.UserError
		}
	}

	if report.Failed() {
		return exitcode.CheckFailed
	}
	return exitcode.Success
}
