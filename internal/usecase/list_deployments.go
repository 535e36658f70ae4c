package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/samber/lo"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	Network      string
	ChainID      uint64
	// Address looks up the single record at this address on ChainID
	Address string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary contains counts over the listed deployments
type DeploymentSummary struct {
	Total      int
	ByChain    map[uint64]int
	ByContract map[string]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	repo DeploymentRepository
	sink ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		repo: repo,
		sink: sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.Info("Loading deployments from manifest")

	if params.Address != "" {
		return uc.lookupAddress(ctx, params)
	}

	filter := domain.DeploymentFilter{
		ChainID:      params.ChainID,
		Network:      params.Network,
		ContractName: params.ContractName,
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// lookupAddress resolves one record through the repository's address index
func (uc *ListDeployments) lookupAddress(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	if params.ChainID == 0 {
		return nil, fmt.Errorf("address lookup requires a chain ID")
	}
	if !common.IsHexAddress(params.Address) {
		return nil, fmt.Errorf("invalid address %q", params.Address)
	}

	deployments := []*models.Deployment{}
	deployment, err := uc.repo.GetDeploymentByAddress(ctx, params.ChainID, params.Address)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		deployments = append(deployments, deployment)
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by chain, contract name, then creation time
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		if deployments[i].ContractName != deployments[j].ContractName {
			return deployments[i].ContractName < deployments[j].ContractName
		}
		return deployments[i].CreatedAt.Before(deployments[j].CreatedAt)
	})
}

func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	return DeploymentSummary{
		Total: len(deployments),
		ByChain: lo.CountValuesBy(deployments, func(d *models.Deployment) uint64 {
			return d.ChainID
		}),
		ByContract: lo.CountValuesBy(deployments, func(d *models.Deployment) string {
			return d.ContractName
		}),
	}
}
