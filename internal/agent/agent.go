// Package agent wires the chat model to the AWS tools. It offers two
// independent single-shot calls: Respond renders the fixed instruction
// template and returns the model's free text, and Select asks the
// tool-bound model which tool answers a query. Neither call loops, and tool
// output is never sent back to the model.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/awsai-go/internal/logging"
)

// instructionTemplate is the fixed prompt every query is embedded in.
// {input} is replaced with the user query.
const instructionTemplate = `
You are a helpful assistant that can interact with AWS services. You have access to the following tools:

Available tools:
- aws_cli_command: Execute any AWS CLI command
- list_route53_hosted_zones: List all Route 53 hosted zones
- get_ec2_instance_size: Get EC2 instance type by private IP address
- get_user_permissions: Get IAM user policies by username
- list_s3_buckets: List all S3 buckets

User request: {input}

Your response:
`

// selectionPrompt instructs the tool-bound model to answer with a tool call.
const selectionPrompt = `You route AWS questions to tools. Call exactly one of the provided tools
with the arguments the user request implies. Do not answer in prose. If no tool applies, reply
with an empty message.`

// inputKey is the template variable holding the user query.
const inputKey = "input"

// Config holds the dependencies required to construct an AWSAgent.
type Config struct {
	// ChatModel is the LLM backend constructed by the provider factory.
	ChatModel model.ToolCallingChatModel

	// Tools is the list of tools Select may choose from. If empty, Select
	// always returns no calls.
	Tools []tool.BaseTool
}

// ToolCall is one tool the model asked for in a Select round.
type ToolCall struct {
	// Name is the registered tool name.
	Name string
	// Arguments is the JSON-encoded argument object produced by the model.
	Arguments string
}

// AWSAgent holds the compiled prompt chain and the tool-bound model.
type AWSAgent struct {
	// chain renders the instruction template and calls the model.
	chain compose.Runnable[map[string]any, *schema.Message]

	// selector is ChatModel bound to the tool schemas; nil without tools.
	selector model.ToolCallingChatModel
}

// New compiles the instruction chain and binds the tool schemas.
func New(ctx context.Context, cfg *Config) (*AWSAgent, error) {
	if cfg == nil || cfg.ChatModel == nil {
		return nil, fmt.Errorf("agent: ChatModel must not be nil")
	}

	tpl := prompt.FromMessages(schema.FString, schema.UserMessage(instructionTemplate))

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(tpl).AppendChatModel(cfg.ChatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("agent: failed to compile prompt chain: %w", err)
	}

	a := &AWSAgent{chain: runnable}

	if len(cfg.Tools) > 0 {
		infos := make([]*schema.ToolInfo, 0, len(cfg.Tools))
		for _, t := range cfg.Tools {
			info, err := t.Info(ctx)
			if err != nil {
				return nil, fmt.Errorf("agent: failed to read tool info: %w", err)
			}
			infos = append(infos, info)
		}
		a.selector, err = cfg.ChatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("agent: failed to bind tools: %w", err)
		}
	}

	return a, nil
}

// Respond sends query through the instruction template and returns the text
// content of the reply.
func (a *AWSAgent) Respond(ctx context.Context, query string) (string, error) {
	msg, err := a.chain.Invoke(ctx, map[string]any{inputKey: query})
	if err != nil {
		return "", fmt.Errorf("agent: model call failed: %w", err)
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

// Select makes one tool-bound Generate call and returns the tool calls in the
// order the model emitted them. An empty slice means the model chose none.
func (a *AWSAgent) Select(ctx context.Context, query string) ([]ToolCall, error) {
	if a.selector == nil {
		return nil, nil
	}

	msg, err := a.selector.Generate(ctx, []*schema.Message{
		schema.SystemMessage(selectionPrompt),
		schema.UserMessage(query),
	})
	if err != nil {
		return nil, fmt.Errorf("agent: tool selection failed: %w", err)
	}
	if msg == nil {
		return nil, nil
	}

	calls := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, ToolCall{Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	logging.FromContext(ctx).Debug("agent: model selected tools", slog.Int("calls", len(calls)))

	return calls, nil
}
