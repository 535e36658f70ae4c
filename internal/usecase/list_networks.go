package usecase

import (
	"context"

	"github.com/product-identification/pid-deploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// QueryChainID connects to each network to read its chain ID
	QueryChainID bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name     string
	URL      string
	ChainID  uint64
	Accounts int
	Error    error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver  NetworkResolver
	connector NetworkConnector
	current   string
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, connector NetworkConnector) *ListNetworks {
	uc := &ListNetworks{
		resolver:  resolver,
		connector: connector,
	}
	if cfg.Network != nil {
		uc.current = cfg.Network.Name
	}
	return uc
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		network, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.URL = network.RPCURL
		status.ChainID = network.ChainID
		status.Accounts = len(network.Accounts)

		if params.QueryChainID {
			conn, err := uc.connector.Connect(ctx, network)
			if err != nil {
				status.Error = err
			} else {
				status.ChainID = conn.ChainID()
				conn.Close()
			}
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.current,
	}, nil
}
