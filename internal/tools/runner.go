package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// DefaultCLIBinary is the aws CLI executable looked up on PATH when no
// explicit path is configured.
const DefaultCLIBinary = "aws"

// ExecRunner implements Runner by executing the real aws binary.
// It is the default runner used in production.
type ExecRunner struct {
	// binary is the executable name or path.
	binary string
}

// NewExecRunner returns an ExecRunner for binary, or for DefaultCLIBinary if
// binary is empty. The binary is not looked up here: a missing executable is
// reported by Run so the CLI tool can surface it as a result.
func NewExecRunner(binary string) *ExecRunner {
	if binary == "" {
		binary = DefaultCLIBinary
	}
	return &ExecRunner{binary: binary}
}

// Binary returns the executable this runner spawns.
func (r *ExecRunner) Binary() string { return r.binary }

// Run executes `<binary> [args...]` with env and returns the captured stdout,
// stderr, and exit code. It blocks until the process exits.
func (r *ExecRunner) Run(ctx context.Context, args []string, env []string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", r.binary, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}
