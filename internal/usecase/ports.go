package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
)

// NetworkConnector opens connections to configured networks
type NetworkConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainConnection, error)
}

// ChainConnection is a live link to a network's RPC endpoint
type ChainConnection interface {
	ChainID() uint64
	// WalletClients returns signing clients in configuration order
	WalletClients(ctx context.Context) ([]WalletClient, error)
	Close()
}

// WalletClient signs and submits transactions for one account
type WalletClient interface {
	Address() common.Address
	// DeployContract submits a contract creation and blocks until it has
	// the requested number of confirmations
	DeployContract(ctx context.Context, artifact *models.Artifact, args []any, confirmations uint64) (*models.DeployedContract, error)
}

// ArtifactStore resolves compiled contracts by name
type ArtifactStore interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
}

// DeploymentRepository handles persistence of deployment records
type DeploymentRepository interface {
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
}

// NetworkResolver resolves configured network names
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// MetricsRecorder records deployment outcomes
type MetricsRecorder interface {
	ObserveDeployment(contract, network string, outcome DeploymentOutcome, duration time.Duration, gasUsed uint64)
	Flush() error
}

// DeploymentOutcome labels a finished run
type DeploymentOutcome string

const (
	OutcomeSuccess         DeploymentOutcome = "success"
	OutcomeConnectionError DeploymentOutcome = "connection_error"
	OutcomeNoSigner        DeploymentOutcome = "no_signer"
	OutcomeDeploymentError DeploymentOutcome = "deployment_error"
)

// Progress tracking interfaces

// ExecutionStage names a step of the deployer procedure
type ExecutionStage string

const (
	StageConnecting     ExecutionStage = "connecting"
	StageSignerSelected ExecutionStage = "signer_selected"
	StageDeploying      ExecutionStage = "deploying"
	StageCompleted      ExecutionStage = "completed"
	StageFailed         ExecutionStage = "failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
