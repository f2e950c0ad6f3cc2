package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the command ran and failed
	ExitCommandError = 2 // bad flags, unreachable database or server
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope written with --format json.
type CLIResponse struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// output writes command results as text or as a JSON envelope.
type output struct {
	format string
	w      io.Writer
}

func newOutput(opts *RootOptions, cmd *cobra.Command) *output {
	return &output{format: opts.Format, w: cmd.OutOrStdout()}
}

// Success prints text in text mode and data in JSON mode.
func (o *output) Success(data any, text string) error {
	if o.format == "json" {
		return json.NewEncoder(o.w).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(o.w, text)
	return err
}

// Fail reports err in the configured format and returns it for the exit code.
func (o *output) Fail(err error) error {
	if o.format == "json" {
		_ = json.NewEncoder(o.w).Encode(CLIResponse{Status: "error", Error: err.Error()})
	}
	return err
}
