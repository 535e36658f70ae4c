package config

// ProjectConfig represents the pid.toml project file
type ProjectConfig struct {
	Deploy   DeploySection            `toml:"deploy"`
	Networks map[string]NetworkConfig `toml:"networks"`
}

// DeploySection is the [deploy] table of pid.toml
type DeploySection struct {
	Contract      string   `toml:"contract,omitempty"`
	Title         string   `toml:"title,omitempty"`
	Artifacts     []string `toml:"artifacts,omitempty"`
	Network       string   `toml:"network,omitempty"`
	Confirmations uint64   `toml:"confirmations,omitempty"`
	PollInterval  string   `toml:"poll_interval,omitempty"`
	Timeout       string   `toml:"timeout,omitempty"`
	Save          bool     `toml:"save,omitempty"`
	MetricsFile   string   `toml:"metrics_file,omitempty"`
}

// NetworkConfig is a [networks.<name>] table of pid.toml
type NetworkConfig struct {
	URL      string   `toml:"url"`
	ChainID  uint64   `toml:"chain_id,omitempty"`
	Explorer string   `toml:"explorer,omitempty"`
	Accounts []string `toml:"accounts,omitempty"` //nolint:gosec // usually holds ${VAR} references
}
