// Package harness runs queries through the agent: each query is sent to the
// model for a free-text reply, and a Dispatcher independently picks the tool
// whose result is printed beneath it.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/54b3r/awsai-go/internal/logging"
	"github.com/54b3r/awsai-go/internal/metrics"
	"github.com/54b3r/awsai-go/internal/store"
	"github.com/54b3r/awsai-go/internal/tools"
)

// DefaultQueries is the demonstration query list processed by `awsai run`.
var DefaultQueries = []string{
	"List all S3 buckets in my AWS account",
	"List all Route 53 hosted zones",
	"Get the size of EC2 instance with IP 10.0.1.112",
	"Get permissions for IAM user take-home-coding",
}

// Banner is printed once before the first query of a run.
const Banner = "Testing Enhanced AWS Agent..."

// separator frames the query line of each iteration.
var separator = strings.Repeat("=", 50)

// Responder produces the model's free-text reply to a query.
type Responder interface {
	Respond(ctx context.Context, query string) (string, error)
}

// Invoker runs a named tool with JSON arguments.
type Invoker interface {
	Invoke(ctx context.Context, name, argumentsInJSON string) tools.Result
}

// Harness holds the collaborators of a run. Store and Metrics are optional.
type Harness struct {
	Out        io.Writer
	Responder  Responder
	Dispatcher Dispatcher
	Tools      Invoker
	Store      store.TranscriptStore
	Metrics    *metrics.Metrics
}

// Run processes queries in order. A failure inside one query is printed and
// the run moves on; only context cancellation stops it early.
func (h *Harness) Run(ctx context.Context, queries []string) error {
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.runOne(ctx, q)
	}
	return nil
}

func (h *Harness) runOne(ctx context.Context, query string) {
	log := logging.FromContext(ctx).With(slog.String("query", query))
	entry := store.Entry{Query: query}

	fmt.Fprintf(h.Out, "\n%s\n", separator)
	fmt.Fprintf(h.Out, "Query: %s\n", query)
	fmt.Fprintln(h.Out, separator)

	dispatched, err := h.guardedProcess(ctx, query, &entry)
	if err != nil {
		fmt.Fprintf(h.Out, "Error: %v\n", err)
		entry.Result = err.Error()
		entry.Failed = true
		log.Warn("harness: query failed", slog.Any("error", err))
	} else {
		log.Info("harness: query processed",
			slog.String("tool", entry.Tool),
			slog.Bool("failed", entry.Failed),
		)
	}

	if h.Metrics != nil {
		h.Metrics.ObserveQuery(dispatched)
	}
	if h.Store != nil {
		if err := h.Store.Append(ctx, entry); err != nil {
			log.Warn("harness: transcript append failed", slog.Any("error", err))
		}
	}
}

// guardedProcess runs process and turns a panic in any collaborator into an
// error so the remaining queries still run.
func (h *Harness) guardedProcess(ctx context.Context, query string, entry *store.Entry) (dispatched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			dispatched = false
			err = fmt.Errorf("harness: panic: %v", r)
		}
	}()
	return h.process(ctx, query, entry)
}

// process performs the model call and the dispatched tool call for one query.
func (h *Harness) process(ctx context.Context, query string, entry *store.Entry) (bool, error) {
	start := time.Now()
	reply, err := h.Responder.Respond(ctx, query)
	if h.Metrics != nil {
		h.Metrics.ObserveModel("respond", err == nil, time.Since(start))
	}
	if err != nil {
		return false, err
	}
	entry.Response = reply

	fmt.Fprintln(h.Out, "Agent response:")
	fmt.Fprintln(h.Out, reply)

	inv, err := h.Dispatcher.Dispatch(ctx, query)
	if err != nil {
		return false, err
	}
	if inv == nil {
		return false, nil
	}

	fmt.Fprintf(h.Out, "\n%s\n", inv.Label)
	res := h.Tools.Invoke(ctx, inv.Tool, inv.Arguments)
	fmt.Fprintf(h.Out, "Result: %s\n", res.String())

	entry.Tool = inv.Tool
	entry.Result = res.String()
	entry.Failed = !res.OK()
	return true, nil
}
