package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
type UpdateCmd struct {
	title       string
	description string
}

// SetFields sets the new title and description (for testing).
func (c *UpdateCmd) SetFields(title, desc string) {
	c.title = title
	c.description = desc
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return nil }
func (c *UpdateCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *UpdateCmd) Usage() string {
	return "taskprobe update [--title <text>] [--description <text>] <id>"
}
func (c *UpdateCmd) NeedsBackend() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	in := service.TaskInput{
		Title:       strings.TrimSpace(c.title),
		Description: strings.TrimSpace(c.description),
	}
	if in.Title == "" && in.Description == "" {
		fmt.Fprintln(errOut, "error: nothing to update (use --title or --description)")
		return exitcode.UserError
	}

	if _, err := svc.UpdateTask(ctx, id, in); err != nil {
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
