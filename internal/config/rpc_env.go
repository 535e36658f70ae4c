package config

import (
	"os"
	"strings"
)

// GenerateEnvVarName generates the conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// rpcURLFromEnv returns the URL from the network's conventional env var, if set
func rpcURLFromEnv(networkName string) (string, bool) {
	url := strings.TrimSpace(os.Getenv(GenerateEnvVarName(networkName)))
	return url, url != ""
}
