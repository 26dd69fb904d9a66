package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/cloud"
	"github.com/54b3r/awsai-go/internal/logging"
)

// CLITool runs an arbitrary aws CLI command with the session credentials
// injected into the subprocess environment.
type CLITool struct {
	// runner executes the aws binary.
	runner Runner

	// creds are exported to the subprocess as AWS_* variables.
	creds cloud.Credentials
}

// cliInput is the JSON-serialisable input schema for CLITool.
type cliInput struct {
	// Command is everything after the binary name, e.g. "ec2 describe-regions".
	Command string `json:"command"`
}

// NewCLITool constructs a CLITool using runner and creds.
func NewCLITool(runner Runner, creds cloud.Credentials) *CLITool {
	return &CLITool{runner: runner, creds: creds}
}

// Name returns the tool name registered with the model.
func (t *CLITool) Name() string { return "aws_cli_command" }

// Description returns the LLM-facing description of this tool.
func (t *CLITool) Description() string {
	return "Execute AWS CLI commands for interacting with AWS services. " +
		"Pass everything after `aws` as a single string, e.g. 'ec2 describe-regions'. " +
		"Arguments are split on whitespace; quoting is not supported."
}

// Info returns the Eino tool metadata including the JSON input schema.
func (t *CLITool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.Name(),
		Desc: t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"command": {
				Type:     schema.String,
				Desc:     "The aws CLI arguments without the leading 'aws', e.g. 's3 ls'.",
				Required: true,
			},
		}),
	}, nil
}

// InvokableRun runs the command and returns the rendered result. The error
// return is always nil.
func (t *CLITool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return t.Call(ctx, argumentsInJSON).String(), nil
}

// Call decodes the command argument and runs it.
func (t *CLITool) Call(ctx context.Context, argumentsInJSON string) Result {
	var input cliInput
	if err := decodeInput(argumentsInJSON, &input); err != nil {
		return inputFailure(t.Name(), err)
	}
	return t.Run(ctx, input.Command)
}

// Run splits command on whitespace and executes it. Stdout is returned on a
// zero exit code; otherwise the captured stderr is returned as a KindCommand
// failure. A process that cannot be started yields a KindExec failure.
func (t *CLITool) Run(ctx context.Context, command string) Result {
	args := strings.Fields(command)
	// Later entries win, so the session credentials override any inherited AWS_* values.
	env := append(os.Environ(), t.creds.Env()...)

	logging.FromContext(ctx).Debug("tools: running aws cli", slog.Any("args", args))

	res, err := t.runner.Run(ctx, args, env)
	if err != nil {
		return failure(KindExec, "Error executing AWS command", err)
	}
	if res.ExitCode != 0 {
		return failure(KindCommand, "Error", &ExitError{Code: res.ExitCode, Stderr: res.Stderr})
	}
	return success(res.Stdout)
}

// decodeInput unmarshals argumentsInJSON into v, treating blank input as {}.
func decodeInput(argumentsInJSON string, v any) error {
	if strings.TrimSpace(argumentsInJSON) == "" {
		return nil
	}
	return json.Unmarshal([]byte(argumentsInJSON), v) //nolint:wrapcheck // wrapped by inputFailure
}
