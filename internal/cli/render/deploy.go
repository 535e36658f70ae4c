package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

const separator = "----------------------------------------------------"

// DeployRenderer prints the deploy command's stdout
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// PrintDeployer announces the selected signer before anything is submitted
func (r *DeployRenderer) PrintDeployer(address common.Address) {
	fmt.Fprintf(r.out, "Deploying contracts with the account: %s\n", address.Hex())
}

// Render prints the success banner
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	deployment := result.Deployment
	title := result.Title
	if title == "" {
		title = deployment.ContractName
	}

	fmt.Fprintln(r.out, separator)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed successfully!", title)))
	fmt.Fprintf(r.out, "📍 Contract Address: %s\n", deployment.Address)

	if result.Network != nil && result.Network.ExplorerURL != "" {
		link := strings.TrimSuffix(result.Network.ExplorerURL, "/") + "/address/" + deployment.Address
		fmt.Fprintf(r.out, "🔗 Explorer: %s\n", color.New(color.FgCyan).Sprint(link))
	}
	if result.Saved {
		fmt.Fprintf(r.out, "📝 Recorded as %s\n", deployment.ID)
	}

	fmt.Fprintln(r.out, separator)
	return nil
}
