// Package tools defines the read-only AWS tools the harness and the model can
// invoke. Each tool satisfies Eino's tool.InvokableTool so it can be bound to a
// tool-calling chat model, and also exposes Call for typed, in-process use.
// No tool ever returns an error past its own boundary: failures are carried in
// the Result.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
)

// RunResult holds the output of an aws CLI invocation.
type RunResult struct {
	// Stdout is the standard output captured from the aws process.
	Stdout string

	// Stderr is the standard error captured from the aws process.
	Stderr string

	// ExitCode is the process exit code (0 = success).
	ExitCode int
}

// Runner is the interface for executing the aws CLI.
// Abstracting this allows tests to inject a fake runner without spawning
// real aws processes.
type Runner interface {
	// Run executes the CLI with args and the full environment env, waiting for
	// it to exit. A non-nil error means the process could not be run at all.
	Run(ctx context.Context, args []string, env []string) (*RunResult, error)
}

// Tool is the interface every AWS tool satisfies.
type Tool interface {
	tool.InvokableTool

	// Name returns the unique tool name registered with the model.
	Name() string

	// Description returns the LLM-facing description of the tool.
	Description() string

	// Call decodes argumentsInJSON and runs the tool. An empty string is
	// treated as an empty JSON object.
	Call(ctx context.Context, argumentsInJSON string) Result
}
