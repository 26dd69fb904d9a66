package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/54b3r/awsai-go/internal/harness"
	"github.com/54b3r/awsai-go/internal/logging"
	"github.com/54b3r/awsai-go/internal/metrics"
)

// NewRunCmd constructs the `awsai run` command, which sends each query to the
// model and runs the tool the dispatcher picks for it.
func NewRunCmd() *cobra.Command {
	var dispatch string
	var queries []string
	var dumpMetrics bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demonstration queries through the agent",
		Long: `Run a list of queries through the agent. For each query the model's reply
is printed, then the dispatcher picks at most one AWS tool and its result is
printed beneath it. A failure in one query is printed and the run continues.

Without --query the four built-in demonstration queries are used.

Examples:
  awsai run
  awsai run --dispatch model
  awsai run --query "List all Route 53 hosted zones" --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			flush := setupTracing(log)
			defer flush()

			var m *metrics.Metrics
			if dumpMetrics {
				m = metrics.New()
			}

			h, cleanup, err := buildHarness(ctx, log, harnessOptions{
				dispatch: dispatch,
				metrics:  m,
				out:      cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			defer cleanup()

			if len(queries) == 0 {
				queries = harness.DefaultQueries
			}

			fmt.Fprintln(cmd.OutOrStdout(), harness.Banner)
			if err := h.Run(ctx, queries); err != nil {
				return fmt.Errorf("run: %w", err)
			}

			if m != nil {
				if err := m.Write(os.Stderr); err != nil {
					return fmt.Errorf("run: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dispatch, "dispatch", harness.ModeKeyword, "Tool dispatcher: keyword or model")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to run (repeatable; default: built-in queries)")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Write Prometheus metrics to stderr when the run ends")

	return cmd
}
