package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/models"
)

// confirmationWaiter polls the backend until a creation transaction is mined,
// successful, has code and is buried under the requested number of blocks.
type confirmationWaiter struct {
	backend      Backend
	pollInterval time.Duration
	log          *slog.Logger
}

func (w *confirmationWaiter) wait(ctx context.Context, contract string, txHash common.Hash, confirmations uint64) (*models.DeployedContract, error) {
	fail := func(err error) error {
		return &domain.DeploymentError{Contract: contract, TxHash: txHash, Err: err}
	}

	if confirmations == 0 {
		confirmations = 1
	}

	receipt, err := w.waitMined(ctx, txHash)
	if err != nil {
		return nil, fail(fmt.Errorf("failed waiting for transaction: %w", err))
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fail(domain.ErrTransactionReverted)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fail(fmt.Errorf("receipt has no contract address"))
	}

	code, err := w.backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, fail(fmt.Errorf("failed to read contract code: %w", err))
	}
	if len(code) == 0 {
		return nil, fail(domain.ErrNoCode)
	}

	blockNumber := receipt.BlockNumber.Uint64()
	if confirmations > 1 {
		if err := w.waitDepth(ctx, blockNumber+confirmations-1); err != nil {
			return nil, fail(fmt.Errorf("failed waiting for %d confirmations: %w", confirmations, err))
		}
	}

	w.log.Info("contract deployed",
		"contract", contract,
		"address", receipt.ContractAddress.Hex(),
		"block", blockNumber,
		"gas_used", receipt.GasUsed,
		"confirmations", confirmations)

	return &models.DeployedContract{
		Address:       receipt.ContractAddress,
		TxHash:        txHash,
		BlockNumber:   blockNumber,
		GasUsed:       receipt.GasUsed,
		Confirmations: confirmations,
	}, nil
}

// waitMined polls for the receipt the way bind.WaitMined does, at the
// configured interval
func (w *confirmationWaiter) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			w.log.Debug("receipt retrieval failed", "tx_hash", txHash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// waitDepth blocks until the chain head reaches target
func (w *confirmationWaiter) waitDepth(ctx context.Context, target uint64) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		head, err := w.backend.BlockNumber(ctx)
		if err != nil {
			return err
		}
		if head >= target {
			return nil
		}
		w.log.Debug("waiting for confirmations", "head", head, "target", target)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
