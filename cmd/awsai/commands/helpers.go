package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/54b3r/awsai-go/internal/agent"
	"github.com/54b3r/awsai-go/internal/cloud"
	"github.com/54b3r/awsai-go/internal/harness"
	"github.com/54b3r/awsai-go/internal/metrics"
	"github.com/54b3r/awsai-go/internal/provider"
	"github.com/54b3r/awsai-go/internal/store"
	"github.com/54b3r/awsai-go/internal/tools"
	"github.com/54b3r/awsai-go/internal/tracing"
)

// buildRegistry creates the AWS session from the environment and registers
// the five tools. m may be nil.
func buildRegistry(m *metrics.Metrics) *tools.Registry {
	session := cloud.NewSession(cloud.CredentialsFromEnv())
	registry := tools.NewDefaultRegistry(session, tools.NewExecRunner(os.Getenv("AWS_CLI_PATH")))
	if m != nil {
		registry.Observe(func(name string, res tools.Result, elapsed time.Duration) {
			var kind string
			if !res.OK() {
				kind = string(res.Err.Kind)
			}
			m.ObserveTool(name, res.OK(), kind, elapsed)
		})
	}
	return registry
}

// openHistory opens the transcript store. AWSAI_HISTORY_DB overrides the
// default path (~/.awsai/history.db); "disabled" turns it off. Failures are
// logged and leave the transcript disabled.
func openHistory(log *slog.Logger) (store.TranscriptStore, func()) {
	dbPath, err := store.PathFromEnv()
	if err != nil {
		log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
		return nil, func() {}
	}
	if dbPath == "" {
		log.Debug("history: disabled via AWSAI_HISTORY_DB=disabled")
		return nil, func() {}
	}

	hs, err := store.Open(dbPath)
	if err != nil {
		log.Warn("history: failed to open store, disabling", slog.Any("error", err))
		return nil, func() {}
	}
	log.Debug("history: store opened", slog.String("path", dbPath))
	return hs, func() { _ = hs.Close() }
}

// setupTracing installs the Langfuse handler when configured and returns the
// flush function to defer.
func setupTracing(log *slog.Logger) func() {
	handler, flush, ok := tracing.Setup()
	if !ok {
		log.Debug("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
		return func() {}
	}
	tracing.Install(handler)
	log.Info("langfuse tracing enabled")
	return flush
}

// harnessOptions configures buildHarness.
type harnessOptions struct {
	// dispatch is the dispatcher mode: keyword or model.
	dispatch string
	// metrics is optional.
	metrics *metrics.Metrics
	// out receives the harness transcript.
	out io.Writer
}

// buildHarness wires the model, the tools, the dispatcher and the transcript
// store. The returned cleanup must be called when the run ends.
func buildHarness(ctx context.Context, log *slog.Logger, opts harnessOptions) (*harness.Harness, func(), error) {
	providerCfg := provider.ConfigFromEnv()
	chatModel, err := provider.New(ctx, providerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}
	log.Debug("provider initialised", slog.String("provider", string(providerCfg.Backend)))

	registry := buildRegistry(opts.metrics)

	agentCfg := &agent.Config{ChatModel: chatModel}
	if opts.dispatch == harness.ModeModel {
		agentCfg.Tools = registry.BaseTools()
	}
	awsAgent, err := agent.New(ctx, agentCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise agent: %w", err)
	}

	dispatcher, err := harness.NewDispatcher(opts.dispatch, awsAgent, opts.metrics)
	if err != nil {
		return nil, nil, err
	}

	history, closeHistory := openHistory(log)

	return &harness.Harness{
		Out:        opts.out,
		Responder:  awsAgent,
		Dispatcher: dispatcher,
		Tools:      registry,
		Store:      history,
		Metrics:    opts.metrics,
	}, closeHistory, nil
}
