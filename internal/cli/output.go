package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/compcore/compcore/internal/compstate"
)

// Exit codes for CLI commands, fixed by the core's error taxonomy: the
// wrapping CLI maps typed errors to these codes, the core itself never
// consults them.
const (
	ExitSuccess               = 0
	ExitSchemaError           = 2
	ExitSchedulingError       = 3
	ExitScoringError          = 4
	ExitInternalInconsistency = 5
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // one of the Exit* constants above
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. If err is not
// already an *ExitError, it is classified by ExitCodeFor first.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeFor(err)
}

// ExitCodeFor maps one of the core's typed errors to the exit code
// reserved for its kind: 2 for malformed input or an unresolved
// reference, 3 for a plan that outruns its schedule or a clock asked
// for time it doesn't have, 4 for anything the scoring collaborator or
// its scoresheets got wrong, and 5 for anything else — an internal
// inconsistency the core's own invariants should have prevented.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var schemaErr *compstate.SchemaError
	var refErr *compstate.ReferenceError
	if errors.As(err, &schemaErr) || errors.As(err, &refErr) {
		return ExitSchemaError
	}

	var planErr *compstate.PlanExceedsPeriodsError
	var timeErr *compstate.OutOfTimeError
	if errors.As(err, &planErr) || errors.As(err, &timeErr) {
		return ExitSchedulingError
	}

	var scoreErr *compstate.MissingScoreError
	var scorerErr *compstate.ScorerError
	var arenaErr *compstate.ScoresheetArenaMismatchError
	if errors.As(err, &scoreErr) || errors.As(err, &scorerErr) || errors.As(err, &arenaErr) {
		return ExitScoringError
	}

	return ExitInternalInconsistency
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`            // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`    // success payload
	Error   *CLIError   `json:"error,omitempty"`   // error details
	TraceID string      `json:"trace_id,omitempty"` // optional trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
