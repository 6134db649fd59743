package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/session"
)

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", describeCommandError(err))

	switch {
	case api.IsUnauthorized(err):
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: sign in first. Try: %s login\n", AppName)
	case api.IsTransport(err):
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: the server is unreachable. Check the server setting or your connection.")
	case isSchemaError(err):
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: the local state looks out of date. Remove it and run %s again.\n", AppName)
	}

	return reportedError{err: err}
}

// reportedError marks an error already printed by writeCommandError.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed to the user.
func IsReported(err error) bool {
	var reported reportedError
	return errors.As(err, &reported)
}

func describeCommandError(err error) string {
	if errors.Is(err, session.ErrUnknownMessage) {
		return "message not found in this room"
	}
	return api.Describe(err)
}

// isSchemaError checks if an error is a SQLite schema mismatch.
func isSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column")
}
