package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrTransactionReverted is returned when the creation receipt has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrNoCode is returned when a mined creation left no code at the contract address
	ErrNoCode = errors.New("no code at contract address")

	// ErrChainIDMismatch is returned when the endpoint reports a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrNoAccounts is returned when the selected network has no signing keys configured
	ErrNoAccounts = errors.New("no accounts configured")
)

// ConnectionError means the configured network could not be reached or is misconfigured.
type ConnectionError struct {
	Network string
	URL     string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to connect to network %s: %v", e.Network, e.Err)
	}
	return fmt.Sprintf("failed to connect to network %s (%s): %v", e.Network, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NoSignerError means no usable signing identity is available on the network.
type NoSignerError struct {
	Network string
	Err     error
}

func (e *NoSignerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no signer available for network %s", e.Network)
	}
	return fmt.Sprintf("no signer available for network %s: %v", e.Network, e.Err)
}

func (e *NoSignerError) Unwrap() error { return e.Err }

// DeploymentError covers a missing artifact, a rejected or reverted creation
// transaction and a failed confirmation. TxHash is zero when nothing was submitted.
type DeploymentError struct {
	Contract string
	TxHash   common.Hash
	Err      error
}

func (e *DeploymentError) Error() string {
	if e.TxHash == (common.Hash{}) {
		return fmt.Sprintf("failed to deploy %s: %v", e.Contract, e.Err)
	}
	return fmt.Sprintf("failed to deploy %s (tx %s): %v", e.Contract, e.TxHash.Hex(), e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
