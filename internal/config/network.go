package config

import (
	"context"
	"fmt"
	"sort"

	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/samber/lo"
)

// Built-in network used when pid.toml does not define one
const (
	LocalhostNetwork = "localhost"
	LocalhostRPCURL  = "http://127.0.0.1:8545"
	LocalhostChainID = 31337
)

// NetworkResolver resolves network names against pid.toml
type NetworkResolver struct {
	networks map[string]config.NetworkConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	networks := make(map[string]config.NetworkConfig)
	if project != nil {
		for name, network := range project.Networks {
			networks[name] = network
		}
	}
	if _, ok := networks[LocalhostNetwork]; !ok {
		networks[LocalhostNetwork] = config.NetworkConfig{
			URL:     LocalhostRPCURL,
			ChainID: LocalhostChainID,
		}
	}
	return &NetworkResolver{networks: networks}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	network, exists := r.networks[networkName]
	if network.URL == "" {
		// <NAME>_RPC_URL fills in a missing url, or defines the network outright
		if url, ok := rpcURLFromEnv(networkName); ok {
			network.URL = url
		} else if !exists {
			return nil, &domain.ConnectionError{
				Network: networkName,
				Err:     fmt.Errorf("network '%s' not found in %s [networks]", networkName, ProjectFile),
			}
		} else {
			return nil, &domain.ConnectionError{
				Network: networkName,
				Err:     fmt.Errorf("network '%s' has no url (set it in %s or %s)", networkName, ProjectFile, GenerateEnvVarName(networkName)),
			}
		}
	}

	explorer := network.Explorer
	if explorer == "" {
		explorer = explorerURL(network.ChainID)
	}

	return &config.Network{
		Name:        networkName,
		RPCURL:      network.URL,
		ChainID:     network.ChainID,
		ExplorerURL: explorer,
		Accounts:    append([]string(nil), network.Accounts...),
	}, nil
}

// GetNetworks returns all configured network names, sorted
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// ResolveNetwork implements usecase.NetworkResolver
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	return r.Resolve(name)
}

// explorerURL returns a default block explorer for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 80002:
		return "https://amoy.polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}
