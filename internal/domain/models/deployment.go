package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeployedContract is what a wallet client reports once a creation
// transaction is confirmed
type DeployedContract struct {
	Address       common.Address
	TxHash        common.Hash
	BlockNumber   uint64
	GasUsed       uint64
	Confirmations uint64
}

// Deployment represents a contract deployment record
type Deployment struct {
	ID              string    `json:"id" yaml:"id"` // e.g., "31337/ProductIdentification/0x5FbD..."
	ContractName    string    `json:"contractName" yaml:"contractName"`
	Artifact        string    `json:"artifact,omitempty" yaml:"artifact,omitempty"` // source:name
	Address         string    `json:"address" yaml:"address"`
	ChainID         uint64    `json:"chainId" yaml:"chainId"`
	Network         string    `json:"network" yaml:"network"`
	Deployer        string    `json:"deployer" yaml:"deployer"`
	TransactionHash string    `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber     uint64    `json:"blockNumber" yaml:"blockNumber"`
	GasUsed         uint64    `json:"gasUsed" yaml:"gasUsed"`
	Confirmations   uint64    `json:"confirmations" yaml:"confirmations"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewDeployment builds a record from a confirmed contract
func NewDeployment(artifact *Artifact, network string, chainID uint64, deployer common.Address, contract *DeployedContract, at time.Time) *Deployment {
	return &Deployment{
		ID:              DeploymentID(chainID, artifact.Name, contract.Address),
		ContractName:    artifact.Name,
		Artifact:        artifact.FullyQualifiedName(),
		Address:         contract.Address.Hex(),
		ChainID:         chainID,
		Network:         network,
		Deployer:        deployer.Hex(),
		TransactionHash: contract.TxHash.Hex(),
		BlockNumber:     contract.BlockNumber,
		GasUsed:         contract.GasUsed,
		Confirmations:   contract.Confirmations,
		CreatedAt:       at,
	}
}

// DeploymentID returns the registry key for a deployment
func DeploymentID(chainID uint64, contractName string, address common.Address) string {
	return fmt.Sprintf("%d/%s/%s", chainID, contractName, address.Hex())
}

// MatchesContract reports whether the record is for the named contract, ignoring case
func (d *Deployment) MatchesContract(name string) bool {
	return strings.EqualFold(d.ContractName, name)
}
