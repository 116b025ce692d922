package commands

import (
	"fmt"
	"io"

	"todoctl/internal/apierr"
	"todoctl/internal/exitcode"
)

// fail prints a backend or validation error and returns the matching exit
// code. Errors reach commands as structured apierr values; commands branch
// on kind, never on message text.
func fail(errOut io.Writer, err error) int {
	switch {
	case apierr.IsUnauthorized(err):
		fmt.Fprintln(errOut, "error: session expired (run: todoctl login)")
		return exitcode.AuthError
	case apierr.IsValidation(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case apierr.IsNotFound(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
