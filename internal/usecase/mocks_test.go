package usecase_test

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/stretchr/testify/mock"
)

// MockConnector is a mock implementation of NetworkConnector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainConnection, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainConnection), args.Error(1)
}

// MockConnection is a mock implementation of ChainConnection
type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) ChainID() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockConnection) WalletClients(ctx context.Context) ([]usecase.WalletClient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.WalletClient), args.Error(1)
}

func (m *MockConnection) Close() {
	m.Called()
}

// MockWallet is a mock implementation of WalletClient
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Address() common.Address {
	args := m.Called()
	return args.Get(0).(common.Address)
}

func (m *MockWallet) DeployContract(ctx context.Context, artifact *models.Artifact, constructorArgs []any, confirmations uint64) (*models.DeployedContract, error) {
	args := m.Called(ctx, artifact, constructorArgs, confirmations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeployedContract), args.Error(1)
}

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ObserveDeployment(contract, network string, outcome usecase.DeploymentOutcome, duration time.Duration, gasUsed uint64) {
	m.Called(contract, network, outcome, duration, gasUsed)
}

func (m *MockMetricsRecorder) Flush() error {
	args := m.Called()
	return args.Error(0)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) GetNetworks(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// recordingSink collects progress output
type recordingSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.errors = append(s.errors, message)
}

func (s *recordingSink) stages() []usecase.ExecutionStage {
	stages := make([]usecase.ExecutionStage, 0, len(s.events))
	for _, e := range s.events {
		stages = append(stages, e.Stage)
	}
	return stages
}
