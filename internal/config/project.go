package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/product-identification/pid-deploy/internal/domain/config"
)

// ProjectFile is the name of the project configuration file
const ProjectFile = "pid.toml"

// loadEnvFiles loads .env files from the project root. Variables already
// present in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectConfig loads and parses a pid.toml file if it exists.
// Returns an empty config when the file does not exist.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	cfg := &config.ProjectConfig{
		Networks: make(map[string]config.NetworkConfig),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}

	// Expand environment variables in network definitions
	for name, network := range cfg.Networks {
		network.URL = os.ExpandEnv(network.URL)
		network.Explorer = os.ExpandEnv(network.Explorer)
		network.Accounts = expandAccounts(network.Accounts)
		cfg.Networks[name] = network
	}
	cfg.Deploy.MetricsFile = os.ExpandEnv(cfg.Deploy.MetricsFile)

	return cfg, nil
}

// expandAccounts expands ${VAR} references and drops entries that end up
// empty, so an unset key variable means "no account" rather than a bad key.
func expandAccounts(raw []string) []string {
	accounts := make([]string, 0, len(raw))
	for _, account := range raw {
		for _, key := range strings.Split(os.ExpandEnv(account), ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			accounts = append(accounts, key)
		}
	}
	return accounts
}
