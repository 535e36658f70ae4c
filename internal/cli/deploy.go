package cli

import (
	"github.com/product-identification/pid-deploy/internal/cli/render"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the contract and print its address",
		Long: `Connect to the selected network, deploy the contract from the first
configured account, wait for confirmation and print the contract address.

Accounts come from pid.toml [networks.<name>].accounts or PID_PRIVATE_KEY.
Without any, the node's unlocked accounts are used.`,
		Example: `  pid-deploy deploy
  pid-deploy deploy --network sepolia --confirmations 2
  PID_RPC_URL=http://127.0.0.1:8545 PID_PRIVATE_KEY=0x... pid-deploy`,
		Args: cobra.NoArgs,
		RunE: runDeploy,
	}

	addDeployFlags(cmd)

	return cmd
}

func addDeployFlags(cmd *cobra.Command) {
	cmd.Flags().String("contract", "", "Contract to deploy (name or source:name)")
	cmd.Flags().Uint64("confirmations", 0, "Blocks to wait for after the receipt (default 1)")
	cmd.Flags().Bool("save", false, "Record the deployment in .pid/deployments.json")
	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().Duration("timeout", 0, "Abort the run after this long (0 = no timeout)")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{})
	if err != nil {
		return err
	}

	return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
}
