package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskprobe/internal/config"
	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

func init() {
	Register(&CreateCmd{})
}

// CreateCmd implements the create command.
type CreateCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *CreateCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *CreateCmd) Name() string       { return "create" }
func (c *CreateCmd) Aliases() []string  { return []string{"add"} }
func (c *CreateCmd) Synopsis() string   { return "Create a task" }
func (c *CreateCmd) Usage() string      { return "taskprobe create --description <text> <title...>" }
func (c *CreateCmd) NeedsBackend() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	desc := strings.TrimSpace(c.description)
	if desc == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	task, err := svc.CreateTask(ctx, service.TaskInput{Title: title, Description: desc})
	if err != nil {
		return reportBackendError(errOut, err)
	}

	fmt.Fprintln(out, task.ID)
	return exitcode.Success
}
