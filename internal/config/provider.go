package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DataDir is the project-local directory for pid-deploy state
const DataDir = ".pid"

// Default deployment settings
const (
	DefaultContract = "ProductIdentification"
	DefaultTitle    = "Product System"
)

// DefaultArtifactDirs are searched when pid.toml does not list any:
// Hardhat output first, then Foundry output.
var DefaultArtifactDirs = []string{"artifacts", "out"}

// flagKeys maps CLI flag names to viper keys
var flagKeys = map[string]string{
	"network":         "network",
	"contract":        "contract",
	"confirmations":   "confirmations",
	"save":            "save",
	"metrics-file":    "metrics_file",
	"timeout":         "timeout",
	"debug":           "debug",
	"non-interactive": "non_interactive",
	"config":          "config",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	configPath := filepath.Join(projectRoot, ProjectFile)
	explicit := v.GetString("config")
	if explicit != "" {
		configPath = explicit
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}
	project, err := loadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	applyProjectDefaults(v, project)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDir),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		MetricsFile:    v.GetString("metrics_file"),
		ProjectConfig:  project,
		Deploy: config.DeploySettings{
			Contract:      v.GetString("contract"),
			Title:         v.GetString("title"),
			ArtifactDirs:  resolveArtifactDirs(projectRoot, v.GetStringSlice("artifacts")),
			Confirmations: v.GetUint64("confirmations"),
			PollInterval:  v.GetDuration("poll_interval"),
			Save:          v.GetBool("save"),
		},
	}

	cfg.Network, cfg.NetworkError = resolveNetwork(v, project)

	return cfg, nil
}

// resolveNetwork resolves the selected network and applies PID_RPC_URL,
// PID_CHAIN_ID and PID_PRIVATE_KEY overrides.
func resolveNetwork(v *viper.Viper, project *config.ProjectConfig) (*config.Network, error) {
	name := v.GetString("network")
	rpcURL := v.GetString("rpc_url")

	network, err := NewNetworkResolver(project).Resolve(name)
	if err != nil {
		if rpcURL == "" {
			return nil, err
		}
		// An explicit RPC URL defines an ad-hoc network
		network = &config.Network{Name: name}
	}

	if rpcURL != "" {
		network.RPCURL = rpcURL
	}
	if v.IsSet("chain_id") {
		network.ChainID = v.GetUint64("chain_id")
		if network.ExplorerURL == "" {
			network.ExplorerURL = explorerURL(network.ChainID)
		}
	}
	if key := v.GetString("private_key"); key != "" {
		network.Accounts = expandAccounts([]string{key})
	}

	return network, nil
}

// applyProjectDefaults layers pid.toml [deploy] values between the built-in
// defaults and env/flags.
func applyProjectDefaults(v *viper.Viper, project *config.ProjectConfig) {
	d := project.Deploy
	if d.Contract != "" {
		v.SetDefault("contract", d.Contract)
	}
	if d.Title != "" {
		v.SetDefault("title", d.Title)
	}
	if len(d.Artifacts) > 0 {
		v.SetDefault("artifacts", d.Artifacts)
	}
	if d.Network != "" {
		v.SetDefault("network", d.Network)
	}
	if d.Confirmations > 0 {
		v.SetDefault("confirmations", d.Confirmations)
	}
	if d.PollInterval != "" {
		v.SetDefault("poll_interval", d.PollInterval)
	}
	if d.Timeout != "" {
		v.SetDefault("timeout", d.Timeout)
	}
	if d.Save {
		v.SetDefault("save", true)
	}
	if d.MetricsFile != "" {
		v.SetDefault("metrics_file", d.MetricsFile)
	}
}

func resolveArtifactDirs(projectRoot string, dirs []string) []string {
	resolved := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectRoot, dir)
		}
		resolved = append(resolved, dir)
	}
	return resolved
}

// FindProjectRoot walks up from current directory to find pid.toml.
// Without one, the working directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("PID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", LocalhostNetwork)
	v.SetDefault("contract", DefaultContract)
	v.SetDefault("title", DefaultTitle)
	v.SetDefault("artifacts", DefaultArtifactDirs)
	v.SetDefault("confirmations", 1)
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("timeout", "0s")
	v.SetDefault("save", false)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return
			}
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
