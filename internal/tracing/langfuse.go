// Package tracing wires optional Langfuse tracing into the eino callback
// system so every model call made by the agent is recorded as a trace.
package tracing

import (
	"os"

	"github.com/cloudwego/eino-ext/callbacks/langfuse"
	"github.com/cloudwego/eino/callbacks"

	"github.com/54b3r/awsai-go/internal/version"
)

// DefaultHost is the Langfuse endpoint used when LANGFUSE_HOST is unset.
const DefaultHost = "https://cloud.langfuse.com"

// traceName labels every trace emitted by the binary.
const traceName = "awsai"

// Setup initialises the Langfuse callback handler if LANGFUSE_PUBLIC_KEY and
// LANGFUSE_SECRET_KEY are set. Returns a flush function that must be called
// before process exit to ensure all traces are sent. If Langfuse is not
// configured, both return values are nil and tracing is silently disabled.
func Setup() (callbacks.Handler, func(), bool) {
	host := os.Getenv("LANGFUSE_HOST")
	publicKey := os.Getenv("LANGFUSE_PUBLIC_KEY")
	secretKey := os.Getenv("LANGFUSE_SECRET_KEY")

	if publicKey == "" || secretKey == "" {
		return nil, nil, false
	}
	if host == "" {
		host = DefaultHost
	}

	handler, flusher := langfuse.NewLangfuseHandler(&langfuse.Config{
		Host:      host,
		PublicKey: publicKey,
		SecretKey: secretKey,
		Name:      traceName,
		Release:   version.Version,
	})

	return handler, flusher, true
}

// Install registers handler as a global eino callback so the agent chain and
// the tool-bound model report to it.
func Install(handler callbacks.Handler) {
	callbacks.AppendGlobalHandlers(handler)
}
