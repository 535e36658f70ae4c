package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
)

// DeployContractParams contains parameters for a deployment run
type DeployContractParams struct {
	// ContractName overrides the configured contract
	ContractName string
	// ConstructorArgs are packed against the artifact's constructor; nil means none
	ConstructorArgs []any
}

// DeployContractResult contains the result of a successful deployment
type DeployContractResult struct {
	Deployer   common.Address
	Deployment *models.Deployment
	Network    *config.Network
	Title      string
	Saved      bool
}

// DeployContract connects to the configured network, deploys one contract
// from the first available signer and reports its address.
type DeployContract struct {
	config    *config.RuntimeConfig
	connector NetworkConnector
	artifacts ArtifactStore
	repo      DeploymentRepository
	metrics   MetricsRecorder
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	connector NetworkConnector,
	artifacts ArtifactStore,
	repo DeploymentRepository,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		connector: connector,
		artifacts: artifacts,
		repo:      repo,
		metrics:   metrics,
		progress:  progress,
		log:       log.With("component", "DeployContract"),
		now:       time.Now,
	}
}

// Run executes the deployer procedure. Any failure aborts the run; the
// returned error is a *domain.ConnectionError, *domain.NoSignerError or
// *domain.DeploymentError.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (result *DeployContractResult, err error) {
	contractName := params.ContractName
	if contractName == "" {
		contractName = uc.config.Deploy.Contract
	}
	network := uc.config.Network
	networkName := ""
	var resolveErr *domain.ConnectionError
	switch {
	case network != nil:
		networkName = network.Name
	case errors.As(uc.config.NetworkError, &resolveErr):
		networkName = resolveErr.Network
	}

	start := uc.now()
	defer func() {
		var gasUsed uint64
		if result != nil {
			gasUsed = result.Deployment.GasUsed
		}
		uc.metrics.ObserveDeployment(contractName, networkName, outcomeOf(err), uc.now().Sub(start), gasUsed)
		if flushErr := uc.metrics.Flush(); flushErr != nil {
			uc.log.Warn("failed to write metrics", "error", flushErr)
		}
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
		}
	}()

	if network == nil {
		if uc.config.NetworkError != nil {
			return nil, uc.config.NetworkError
		}
		return nil, &domain.ConnectionError{Err: fmt.Errorf("no network configured")}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s", network.Name),
	})

	conn, err := uc.connector.Connect(ctx, network)
	if err != nil {
		var connErr *domain.ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		return nil, &domain.ConnectionError{Network: network.Name, URL: network.RPCURL, Err: err}
	}
	defer conn.Close()

	wallets, err := conn.WalletClients(ctx)
	if err != nil {
		var signerErr *domain.NoSignerError
		if errors.As(err, &signerErr) {
			return nil, err
		}
		return nil, &domain.NoSignerError{Network: network.Name, Err: err}
	}
	if len(wallets) == 0 {
		return nil, &domain.NoSignerError{Network: network.Name, Err: domain.ErrNoAccounts}
	}
	deployer := wallets[0]

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageSignerSelected,
		Metadata: deployer.Address(),
	})

	artifact, err := uc.artifacts.GetArtifact(ctx, contractName)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: contractName, Err: err}
	}

	args := params.ConstructorArgs
	if args == nil {
		args = []any{}
	}

	confirmations := uc.config.Deploy.Confirmations
	if confirmations == 0 {
		confirmations = 1
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s", artifact.Name),
		Spinner: true,
	})
	uc.log.Debug("deploying contract",
		"contract", artifact.FullyQualifiedName(),
		"network", network.Name,
		"chain_id", conn.ChainID(),
		"deployer", deployer.Address().Hex(),
		"confirmations", confirmations,
	)

	deployed, err := deployer.DeployContract(ctx, artifact, args, confirmations)
	if err != nil {
		var deployErr *domain.DeploymentError
		if errors.As(err, &deployErr) {
			return nil, err
		}
		return nil, &domain.DeploymentError{Contract: contractName, Err: err}
	}

	deployment := models.NewDeployment(artifact, network.Name, conn.ChainID(), deployer.Address(), deployed, uc.now().UTC())

	result = &DeployContractResult{
		Deployer:   deployer.Address(),
		Deployment: deployment,
		Network:    network,
		Title:      uc.config.Deploy.Title,
	}

	if uc.config.Deploy.Save {
		if saveErr := uc.repo.SaveDeployment(ctx, deployment); saveErr != nil {
			// The contract is on chain; a manifest failure does not undo that.
			uc.log.Warn("failed to save deployment record", "id", deployment.ID, "error", saveErr)
			uc.progress.Error(fmt.Sprintf("failed to save deployment record: %v", saveErr))
		} else {
			result.Saved = true
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Metadata: deployment})

	return result, nil
}

func outcomeOf(err error) DeploymentOutcome {
	var (
		connErr   *domain.ConnectionError
		signerErr *domain.NoSignerError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &connErr):
		return OutcomeConnectionError
	case errors.As(err, &signerErr):
		return OutcomeNoSigner
	default:
		return OutcomeDeploymentError
	}
}
