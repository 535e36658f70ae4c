package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/product-identification/pid-deploy/internal/adapters/progress"
	"github.com/product-identification/pid-deploy/internal/app"
	"github.com/product-identification/pid-deploy/internal/cli/render"
	"github.com/product-identification/pid-deploy/internal/config"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// AppFactory builds the application for a command invocation
type AppFactory func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithFactory(app.InitApp)
}

// NewRootCmdWithFactory creates the root command with a custom app factory
func NewRootCmdWithFactory(factory AppFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pid-deploy",
		Short: "Deploy the ProductIdentification contract",
		Long: `pid-deploy connects to an Ethereum-compatible network, deploys the
ProductIdentification contract from the first configured account and prints
its address. Running it without a subcommand is the same as "pid-deploy deploy".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return fmt.Errorf("failed to find project root: %w", err)
			}

			// Set up viper with this command's flags bound
			v := config.SetupViper(projectRoot, cmd)

			interactive := !v.GetBool("non_interactive") && isTerminal(cmd.ErrOrStderr())
			sink := progress.NewDeployProgress(
				render.NewDeployRenderer(cmd.OutOrStdout()),
				progress.NewSpinnerProgressReporter(cmd.ErrOrStderr()),
				interactive,
			)

			// Initialize app with DI
			appInstance, err := factory(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			// Execute cancels the parent once the command returns, even when
			// RunE fails and PostRun hooks are skipped
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				context.AfterFunc(cmd.Context(), cancel)
			}

			cmd.SetContext(ctx)

			return nil
		},
		RunE: runDeploy,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable the progress spinner")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., localhost, sepolia)")
	rootCmd.PersistentFlags().String("config", "", "Path to pid.toml (defaults to the nearest one up the tree)")

	addDeployFlags(rootCmd)

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "management"
	rootCmd.AddCommand(deploymentsCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the command and returns the process exit code. Errors are
// printed once, to stderr.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	ctx, cancel := context.WithCancel(ctx)
	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
