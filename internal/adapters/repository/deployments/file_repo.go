package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

const DeploymentsFile = "deployments.json"

// FileRepository stores deployment records in a JSON manifest under the data dir.
// The file is read on first use and written only on save, so read-only
// commands never create the directory.
type FileRepository struct {
	dataDir     string
	mu          sync.Mutex
	loaded      bool
	deployments map[string]*models.Deployment
	byAddress   map[uint64]map[string]string
}

// NewFileRepository creates a repository rooted at dataDir
func NewFileRepository(dataDir string) *FileRepository {
	return &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*models.Deployment),
		byAddress:   make(map[uint64]map[string]string),
	}
}

// NewFileRepositoryFromConfig creates a repository in the configured data dir
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.DataDir)
}

// Path returns the manifest location
func (m *FileRepository) Path() string {
	return filepath.Join(m.dataDir, DeploymentsFile)
}

// ensureLoaded reads the manifest once. Caller must hold the write lock.
func (m *FileRepository) ensureLoaded() error {
	if m.loaded {
		return nil
	}

	data, err := os.ReadFile(m.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read deployments: %w", err)
	}
	if err == nil {
		deployments := make(map[string]*models.Deployment)
		if err := json.Unmarshal(data, &deployments); err != nil {
			return fmt.Errorf("failed to parse %s: %w", m.Path(), err)
		}
		if deployments != nil {
			m.deployments = deployments
		}
	}

	m.rebuildLookups()
	m.loaded = true
	return nil
}

// save writes the manifest
func (m *FileRepository) save() error {
	if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", m.dataDir, err)
	}

	data, err := json.MarshalIndent(m.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	path := m.Path()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

// rebuildLookups rebuilds the address index from the loaded records
func (m *FileRepository) rebuildLookups() {
	m.byAddress = make(map[uint64]map[string]string)
	for id, dep := range m.deployments {
		m.indexAddress(id, dep)
	}
}

func (m *FileRepository) indexAddress(id string, dep *models.Deployment) {
	if m.byAddress[dep.ChainID] == nil {
		m.byAddress[dep.ChainID] = make(map[string]string)
	}
	m.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (m *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	id, exists := m.byAddress[chainID][strings.ToLower(address)]
	if !exists {
		return nil, fmt.Errorf("deployment at address %s on chain %d: %w", address, chainID, domain.ErrNotFound)
	}

	// Clone to avoid mutations
	clone := *m.deployments[id]
	return &clone, nil
}

// ListDeployments retrieves deployments matching the filter
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	var result []*models.Deployment
	for _, dep := range m.deployments {
		// Apply filters
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			continue
		}
		if filter.Network != "" && dep.Network != filter.Network {
			continue
		}
		if filter.ContractName != "" && !dep.MatchesContract(filter.ContractName) {
			continue
		}

		// Clone and add to result
		clone := *dep
		result = append(result, &clone)
	}

	return result, nil
}

// SaveDeployment adds or replaces a deployment record and persists the manifest
func (m *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return err
	}
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no ID")
	}

	clone := *deployment
	m.deployments[deployment.ID] = &clone
	m.indexAddress(deployment.ID, &clone)

	return m.save()
}

// Ensure the repository implements the interface
var _ usecase.DeploymentRepository = (*FileRepository)(nil)
