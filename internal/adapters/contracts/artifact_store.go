package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/samber/lo"
)

// rawArtifact covers the fields shared by Hardhat and Foundry artifact files
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     Bytecode        `json:"bytecode"`
	Metadata     struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// AmbiguousArtifactError is returned when a bare name matches artifacts from several sources
type AmbiguousArtifactError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousArtifactError) Error() string {
	suggestions := lo.Map(e.Matches, func(m string, _ int) string { return "  - " + m })
	return fmt.Sprintf("multiple artifacts found for %s - use source:contract format to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}

// ArtifactStore resolves compiled contracts from Hardhat or Foundry build output
type ArtifactStore struct {
	dirs []string
	log  *slog.Logger
}

// NewArtifactStore creates an artifact store searching the configured directories
func NewArtifactStore(cfg *config.RuntimeConfig, log *slog.Logger) *ArtifactStore {
	return &ArtifactStore{
		dirs: cfg.Deploy.ArtifactDirs,
		log:  log.With("component", "ArtifactStore"),
	}
}

// GetArtifact resolves a contract by name or by source:name. Directories are
// searched in order and the first directory with a match wins.
func (s *ArtifactStore) GetArtifact(ctx context.Context, key string) (*models.Artifact, error) {
	sourceName, contractName := splitKey(key)

	for _, dir := range s.dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := s.scan(dir, sourceName, contractName)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}

		if len(matches) > 1 {
			return nil, &AmbiguousArtifactError{
				Name: key,
				Matches: lo.Map(matches, func(a *models.Artifact, _ int) string {
					return a.FullyQualifiedName()
				}),
			}
		}

		artifact := matches[0]
		s.log.Debug("resolved artifact", "contract", artifact.FullyQualifiedName(), "path", artifact.Path, "format", artifact.Format)
		return artifact, nil
	}

	return nil, fmt.Errorf("%w: %s (searched %s; compile the contracts first)",
		domain.ErrArtifactNotFound, key, strings.Join(s.dirs, ", "))
}

// scan walks one build directory for artifacts matching the name
func (s *ArtifactStore) scan(dir, sourceName, contractName string) ([]*models.Artifact, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	bySource := make(map[string]*models.Artifact)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == "build-info" || d.Name() == "cache" {
				return filepath.SkipDir
			}
			return nil
		}

		// Hardhat writes <Name>.json and <Name>.dbg.json side by side
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		if strings.TrimSuffix(d.Name(), ".json") != contractName {
			return nil
		}

		artifact, err := loadArtifact(path)
		if err != nil {
			return fmt.Errorf("failed to load artifact %s: %w", path, err)
		}
		if artifact == nil || artifact.Name != contractName {
			return nil
		}
		if sourceName != "" && artifact.SourceName != sourceName {
			return nil
		}

		bySource[artifact.SourceName] = artifact
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := lo.Keys(bySource)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) *models.Artifact { return bySource[k] }), nil
}

// loadArtifact parses an artifact file. It returns nil for JSON files that
// are not contract artifacts.
func loadArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // build output path
	if err != nil {
		return nil, err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	if len(raw.ABI) == 0 {
		return nil, nil
	}

	artifact := &models.Artifact{
		Name:       raw.ContractName,
		SourceName: raw.SourceName,
		Path:       path,
		Format:     models.ArtifactFormatHardhat,
	}

	if artifact.Name == "" {
		// Foundry keeps the target in the metadata
		for source, contract := range raw.Metadata.Settings.CompilationTarget {
			artifact.SourceName = source
			artifact.Name = contract
			break // There should only be one entry
		}
		artifact.Format = models.ArtifactFormatFoundry
	}
	if artifact.Name == "" {
		artifact.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	if raw.Bytecode.Empty() {
		return nil, fmt.Errorf("%s has no bytecode (interface or abstract contract?)", artifact.Name)
	}
	code, err := raw.Bytecode.Bytes()
	if err != nil {
		return nil, err
	}
	artifact.Bytecode = code

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI: %w", err)
	}
	artifact.ABI = parsed

	return artifact, nil
}

// splitKey splits "path/To.sol:Name" into its parts
func splitKey(key string) (sourceName, contractName string) {
	if idx := strings.LastIndex(key, ":"); idx != -1 {
		return key[:idx], key[idx+1:]
	}
	return "", key
}

// Ensure the store implements the interface
var _ usecase.ArtifactStore = (*ArtifactStore)(nil)
