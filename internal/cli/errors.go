package cli

import (
	"errors"

	"github.com/hnrobert/suexrs/internal/launch"
)

// ExitCode maps an error returned by the root command to a process exit
// code: the command's own status when it ran, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *launch.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Message returns the line reported to the user for err.
func Message(err error) string {
	var exitErr *launch.ExitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &exitErr):
		return exitErr.Error()
	default:
		return err.Error()
	}
}
