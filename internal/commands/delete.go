package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

func init() {
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string       { return "delete" }
func (c *DeleteCmd) Aliases() []string  { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string   { return "Delete a task" }
func (c *DeleteCmd) Usage() string      { return "taskprobe delete <id>" }
func (c *DeleteCmd) NeedsBackend() bool { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if _, err := svc.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: task not found: %s\n", id)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
