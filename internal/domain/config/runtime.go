package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network
	// NetworkError is why Network could not be resolved. Commands that do
	// not connect still run; deploy reports it.
	NetworkError error

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration // zero means no timeout

	// Deployment settings
	Deploy DeploySettings

	// MetricsFile is the Prometheus textfile to write after a run; empty disables metrics export.
	MetricsFile string

	// Resolved configurations
	ProjectConfig *ProjectConfig
}

// DeploySettings controls the deployer procedure
type DeploySettings struct {
	// Contract is the artifact name to deploy
	Contract string
	// Title is the human label used in the success banner
	Title string
	// ArtifactDirs are searched in order for compiled artifacts
	ArtifactDirs []string
	// Confirmations is the number of blocks, including the inclusion block,
	// that must exist on top of the creation transaction before the address
	// is reported. 1 means "receipt with success status".
	Confirmations uint64
	// PollInterval is the delay between confirmation checks
	PollInterval time.Duration
	// Save persists a deployment record to the manifest
	Save bool
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	// Accounts are hex private keys in signer order
	Accounts []string `json:"-"`
}
