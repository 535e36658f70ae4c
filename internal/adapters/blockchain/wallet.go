package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// KeyedWallet signs locally with a private key from configuration
type KeyedWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	waiter  *confirmationWaiter
}

// Address returns the signer address
func (w *KeyedWallet) Address() common.Address {
	return w.address
}

// DeployContract signs and submits the creation transaction, then waits for confirmations
func (w *KeyedWallet) DeployContract(ctx context.Context, artifact *models.Artifact, args []any, confirmations uint64) (*models.DeployedContract, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: artifact.Name, Err: fmt.Errorf("failed to create transactor: %w", err)}
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, w.waiter.backend, args...)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: artifact.Name, Err: fmt.Errorf("failed to submit transaction: %w", err)}
	}

	w.waiter.log.Info("deployment transaction submitted",
		"contract", artifact.Name,
		"tx_hash", tx.Hash().Hex(),
		"from", w.address.Hex(),
		"expected_address", address.Hex())

	return w.waiter.wait(ctx, artifact.Name, tx.Hash(), confirmations)
}

// RemoteWallet uses an account unlocked on the node (eth_sendTransaction)
type RemoteWallet struct {
	address common.Address
	rpc     *rpc.Client
	waiter  *confirmationWaiter
}

type sendTxArgs struct {
	From common.Address `json:"from"`
	Data hexutil.Bytes  `json:"data"`
}

// Address returns the node account address
func (w *RemoteWallet) Address() common.Address {
	return w.address
}

// DeployContract asks the node to sign and submit the creation transaction
func (w *RemoteWallet) DeployContract(ctx context.Context, artifact *models.Artifact, args []any, confirmations uint64) (*models.DeployedContract, error) {
	input, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: artifact.Name, Err: fmt.Errorf("failed to encode constructor arguments: %w", err)}
	}

	data := make([]byte, 0, len(artifact.Bytecode)+len(input))
	data = append(data, artifact.Bytecode...)
	data = append(data, input...)

	var txHash common.Hash
	if err := w.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", sendTxArgs{From: w.address, Data: data}); err != nil {
		return nil, &domain.DeploymentError{Contract: artifact.Name, Err: fmt.Errorf("failed to submit transaction: %w", err)}
	}

	w.waiter.log.Info("deployment transaction submitted",
		"contract", artifact.Name,
		"tx_hash", txHash.Hex(),
		"from", w.address.Hex())

	return w.waiter.wait(ctx, artifact.Name, txHash, confirmations)
}

// Ensure the wallets implement the interface
var (
	_ usecase.WalletClient = (*KeyedWallet)(nil)
	_ usecase.WalletClient = (*RemoteWallet)(nil)
)
