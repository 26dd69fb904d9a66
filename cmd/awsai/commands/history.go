package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/54b3r/awsai-go/internal/store"
)

// NewHistoryCmd constructs the `awsai history` command, which prints the most
// recent transcript entries.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent queries and tool results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			dbPath, err := store.PathFromEnv()
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if dbPath == "" {
				fmt.Fprintln(out, "history is disabled (AWSAI_HISTORY_DB=disabled)")
				return nil
			}

			hs, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			defer func() { _ = hs.Close() }()

			entries, err := hs.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no history yet")
				return nil
			}

			for _, e := range entries {
				status := "ok"
				if e.Failed {
					status = "failed"
				}
				tool := e.Tool
				if tool == "" {
					tool = "-"
				}
				fmt.Fprintf(out, "%s  %-6s  %-26s  %s\n", e.CreatedAt.Format(time.DateTime), status, tool, e.Query)
				if e.Result != "" {
					fmt.Fprintf(out, "    %s\n", e.Result)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	return cmd
}
