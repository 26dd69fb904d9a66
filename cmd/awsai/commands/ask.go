package commands

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/54b3r/awsai-go/internal/harness"
	"github.com/54b3r/awsai-go/internal/logging"
)

// NewAskCmd constructs the `awsai ask` command, which runs a single query
// through the agent.
func NewAskCmd() *cobra.Command {
	var dispatch string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Ask the agent a single question",
		Long: `Send one natural language query to the agent and print its reply, followed
by the result of the dispatched AWS tool if one applies.

Examples:
  awsai ask "List all S3 buckets in my AWS account"
  awsai ask --dispatch model "which policies does user deploy-bot have?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			flush := setupTracing(log)
			defer flush()

			h, cleanup, err := buildHarness(ctx, log, harnessOptions{
				dispatch: dispatch,
				out:      cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer cleanup()

			return h.Run(ctx, []string{strings.Join(args, " ")}) //nolint:wrapcheck // CLI entry point
		},
	}

	cmd.Flags().StringVar(&dispatch, "dispatch", harness.ModeKeyword, "Tool dispatcher: keyword or model")

	return cmd
}
