// Package commands defines all Cobra CLI commands for the awsai binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/54b3r/awsai-go/internal/audit"
	"github.com/54b3r/awsai-go/internal/config"
	"github.com/54b3r/awsai-go/internal/logging"
)

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	// configPath holds the --config flag value for YAML config file override.
	var configPath string
	// envFile holds the --env-file flag value.
	var envFile string

	root := &cobra.Command{
		Use:   "awsai",
		Short: "awsai: ask a language model about your AWS account",
		Long: `awsai wires a hosted language model to a handful of read-only AWS tools:
S3 bucket listing, Route 53 hosted zones, EC2 instance type by private IP,
IAM user policies, and a pass-through to the aws CLI.

AWS credentials are read from AWS_ACCESS_KEY, AWS_SECRET_KEY and REGION_NAME,
optionally from a .env file or a YAML config file (~/.awsai/config.yaml).
The model provider is selected via MODEL_PROVIDER (default: openai).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// .env first, then YAML; values already in the environment always win.
			loadedEnv, err := config.LoadDotEnv(envFile, log)
			if err != nil {
				return err
			}
			loadedConfig, err := config.Load(configPath, log)
			if err != nil {
				return err
			}

			audit.LogCommandStart(cmd.Context(), log, cmd.Name(), loadedConfig, loadedEnv)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.awsai/config.yaml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")

	root.AddCommand(
		NewRunCmd(),
		NewAskCmd(),
		NewToolCmd(),
		NewHistoryCmd(),
		NewVersionCmd(),
	)

	return root
}
