package commands

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/54b3r/awsai-go/internal/logging"
)

// primaryParams maps tools that take a single string argument to its name.
// Positional arguments of `awsai tool` are joined with spaces into it.
var primaryParams = map[string]string{
	"aws_cli_command":       "command",
	"get_ec2_instance_size": "instance_ip",
	"get_user_permissions":  "user_name",
}

// toolArguments builds the JSON argument object for a tool from positional
// arguments. A single argument starting with "{" is passed through verbatim.
func toolArguments(name string, args []string) (string, error) {
	if len(args) == 0 {
		return "{}", nil
	}
	if len(args) == 1 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		return args[0], nil
	}
	param, ok := primaryParams[name]
	if !ok {
		return "", fmt.Errorf("tool %s takes no positional arguments", name)
	}
	b, err := json.Marshal(map[string]string{param: strings.Join(args, " ")})
	if err != nil {
		return "", fmt.Errorf("encode arguments: %w", err)
	}
	return string(b), nil
}

// NewToolCmd constructs the `awsai tool` command, which invokes one tool
// directly without the model.
func NewToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool <name> [args...]",
		Short: "Invoke an AWS tool directly",
		Long: `Invoke a registered tool by name and print its result. No model is involved.

Positional arguments fill the tool's single parameter: the command line for
aws_cli_command, the private IP for get_ec2_instance_size, the user name for
get_user_permissions. A single JSON object argument is passed through as is.

Examples:
  awsai tool list_s3_buckets
  awsai tool get_ec2_instance_size 10.0.1.112
  awsai tool aws_cli_command sts get-caller-identity
  awsai tool get_user_permissions '{"user_name":"take-home-coding"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctx = logging.WithLogger(ctx, logging.New())

			name := args[0]
			registry := buildRegistry(nil)
			if registry.Get(name) == nil {
				return fmt.Errorf("tool: unknown tool %q (see 'awsai tool list')", name)
			}

			arguments, err := toolArguments(name, args[1:])
			if err != nil {
				return fmt.Errorf("tool: %w", err)
			}

			res := registry.Invoke(ctx, name, arguments)
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}

	cmd.AddCommand(newToolListCmd())
	return cmd
}

// newToolListCmd constructs `awsai tool list`.
func newToolListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range buildRegistry(nil).List() {
				fmt.Fprintf(w, "%s\t%s\n", t.Name(), t.Description())
			}
			return w.Flush()
		},
	}
}
