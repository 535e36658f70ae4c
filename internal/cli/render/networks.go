package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in pid.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := "  "
		if network.Name == result.Current {
			marker = color.New(color.FgGreen).Sprint("* ")
		}

		if network.Error != nil {
			fmt.Fprintf(r.out, "%s❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}

		chainID := "any"
		if network.ChainID != 0 {
			chainID = fmt.Sprintf("%d", network.ChainID)
		}
		fmt.Fprintf(r.out, "%s✅ %s - Chain ID: %s - %s\n",
			marker, network.Name, chainID, accountsLabel(network.Accounts))
		fmt.Fprintf(r.out, "      %s\n", color.New(color.Faint).Sprint(network.URL))
	}

	return nil
}

func accountsLabel(n int) string {
	switch n {
	case 0:
		return "node accounts"
	case 1:
		return "1 account"
	default:
		return fmt.Sprintf("%d accounts", n)
	}
}
