package cli

import (
	"github.com/product-identification/pid-deploy/internal/cli/render"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		output       string
		contractName string
		chainID      uint64
		address      string
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List deployments recorded in .pid/deployments.json.

Deployments are only recorded when deploy runs with --save or deploy.save = true.`,
		Example: `  pid-deploy deployments
  pid-deploy deployments --network sepolia -o json
  pid-deploy deployments --chain-id 31337 --address 0x5FbDB2315678afecb367f032d93F642f64180aa3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				ContractName: contractName,
				ChainID:      chainID,
				Address:      address,
			}
			// The global --network flag filters only when given explicitly
			if cmd.Flags().Changed("network") {
				params.Network, _ = cmd.Flags().GetString("network")
			}
			// An address lookup defaults to the selected network's chain
			if address != "" && chainID == 0 && app.Config.Network != nil {
				params.ChainID = app.Config.Network.ChainID
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), !app.Config.NonInteractive)
			return renderer.Render(result, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", render.OutputTable, "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&contractName, "name", "", "Filter by contract name")
	cmd.Flags().Uint64Var(&chainID, "chain-id", 0, "Filter by chain ID")
	cmd.Flags().StringVar(&address, "address", "", "Show the deployment at this address (uses --chain-id or the network's chain ID)")

	return cmd
}
