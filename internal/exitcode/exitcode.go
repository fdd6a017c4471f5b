// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad config, not found).
	UserError = 1

	// AuthError indicates the server rejected the credentials.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3

	// CheckFailed indicates at least one property check failed.
	CheckFailed = 4
)
