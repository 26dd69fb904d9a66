package tools

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a tool failure so callers can branch without parsing
// the rendered text.
type ErrorKind string

const (
	// KindProvider is an error returned by an AWS API call, including
	// credential and handle construction failures.
	KindProvider ErrorKind = "provider"
	// KindExec means the aws CLI process could not be started.
	KindExec ErrorKind = "exec"
	// KindCommand means the aws CLI ran and exited non-zero.
	KindCommand ErrorKind = "command"
	// KindInput means the tool arguments could not be decoded or the tool
	// name is unknown.
	KindInput ErrorKind = "input"
)

// Error is the structured failure carried by a Result.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Prefix is the tool-specific text rendered before the cause,
	// e.g. "Error listing S3 buckets".
	Prefix string
	// Err is the underlying cause.
	Err error
}

// Error renders "<Prefix>: <cause>".
func (e *Error) Error() string {
	return e.Prefix + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// ExitError is the cause of a KindCommand failure. Its text is the captured
// standard error of the aws process.
type ExitError struct {
	// Code is the process exit code.
	Code int
	// Stderr is the captured standard error.
	Stderr string
}

// Error returns the captured standard error.
func (e *ExitError) Error() string { return e.Stderr }

// Result is the outcome of a tool call: either Output or Err is meaningful.
type Result struct {
	// Output is the formatted success payload.
	Output string
	// Err is set when the call failed.
	Err *Error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// String renders the result as the single human-readable line printed by the
// harness and returned to the model: the output on success, the prefixed error
// text on failure.
func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Output
}

// success wraps out in a successful Result.
func success(out string) Result {
	return Result{Output: out}
}

// failure wraps err in a failed Result of the given kind.
func failure(kind ErrorKind, prefix string, err error) Result {
	return Result{Err: &Error{Kind: kind, Prefix: prefix, Err: err}}
}

// formatNames renders names in the order given as "[a, b, c]".
func formatNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

// inputFailure reports undecodable arguments for the named tool.
func inputFailure(name string, err error) Result {
	return failure(KindInput, "Error", fmt.Errorf("%s: invalid input: %w", name, err))
}
