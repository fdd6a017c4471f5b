package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/output"
	"taskprobe/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskprobe list" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list, err := svc.ListTasks(ctx)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	output.FormatTaskCount(out, list.Count)
	for _, task := range list.Tasks {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
