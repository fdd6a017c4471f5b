package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"taskprobe/internal/exitcode"
	"taskprobe/internal/service"
)

// reportBackendError prints err and returns the matching exit code.
func reportBackendError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// singleID returns the only positional argument.
func singleID(args []string, errOut io.Writer) (string, bool) {
	switch {
	case len(args) == 0:
		fmt.Fprintln(errOut, "error: task id required")
		return "", false
	case len(args) > 1:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return "", false
	}
	return args[0], true
}

// writeReport writes v as indented JSON to path.
func writeReport(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
