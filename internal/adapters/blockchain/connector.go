package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// Backend is the subset of an Ethereum client the deployer needs.
// *ethclient.Client and the simulated backend's client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Dialed is the result of dialing an endpoint. RPC is nil when the backend
// has no JSON-RPC transport, which disables node-managed accounts.
type Dialed struct {
	Backend Backend
	RPC     *rpc.Client
	Close   func()
}

// DialFunc opens a backend for an RPC URL
type DialFunc func(ctx context.Context, rawURL string) (*Dialed, error)

// DialEthclient dials a JSON-RPC endpoint with go-ethereum's ethclient
func DialEthclient(ctx context.Context, rawURL string) (*Dialed, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return &Dialed{Backend: client, RPC: client.Client(), Close: client.Close}, nil
}

// Connector implements usecase.NetworkConnector
type Connector struct {
	dial         DialFunc
	pollInterval time.Duration
	log          *slog.Logger
}

// NewConnector creates a connector that dials with ethclient
func NewConnector(cfg *config.RuntimeConfig, log *slog.Logger) *Connector {
	return NewConnectorWithDialer(DialEthclient, cfg.Deploy.PollInterval, log)
}

// NewConnectorWithDialer creates a connector with a custom dialer
func NewConnectorWithDialer(dial DialFunc, pollInterval time.Duration, log *slog.Logger) *Connector {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Connector{
		dial:         dial,
		pollInterval: pollInterval,
		log:          log.With("component", "Connector"),
	}
}

// Connect establishes connection to the network and verifies its chain ID
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.ChainConnection, error) {
	connErr := func(err error) error {
		return &domain.ConnectionError{Network: network.Name, URL: network.RPCURL, Err: err}
	}

	if network.RPCURL == "" {
		return nil, connErr(fmt.Errorf("no RPC URL configured"))
	}

	c.log.Debug("dialing", "network", network.Name, "url", network.RPCURL)
	dialed, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, connErr(fmt.Errorf("failed to connect to RPC: %w", err))
	}

	networkChainID, err := dialed.Backend.ChainID(ctx)
	if err != nil {
		dialed.Close()
		return nil, connErr(fmt.Errorf("failed to get chain ID: %w", err))
	}

	// A zero chain ID in config accepts whatever the endpoint reports
	if network.ChainID != 0 && networkChainID.Uint64() != network.ChainID {
		dialed.Close()
		return nil, connErr(fmt.Errorf("%w: expected %d, got %d", domain.ErrChainIDMismatch, network.ChainID, networkChainID.Uint64()))
	}

	c.log.Debug("connected", "network", network.Name, "chain_id", networkChainID.Uint64())

	return &Connection{
		network:      network,
		backend:      dialed.Backend,
		rpc:          dialed.RPC,
		closer:       dialed.Close,
		chainID:      networkChainID,
		pollInterval: c.pollInterval,
		log:          c.log,
	}, nil
}

// Connection implements usecase.ChainConnection
type Connection struct {
	network      *config.Network
	backend      Backend
	rpc          *rpc.Client
	closer       func()
	chainID      *big.Int
	pollInterval time.Duration
	log          *slog.Logger
}

// ChainID returns the chain ID reported by the endpoint
func (c *Connection) ChainID() uint64 {
	return c.chainID.Uint64()
}

// WalletClients returns one client per configured private key, in order.
// Without configured keys it falls back to the node's unlocked accounts
// (eth_accounts), as development nodes such as Hardhat and Anvil expose.
func (c *Connection) WalletClients(ctx context.Context) ([]usecase.WalletClient, error) {
	if len(c.network.Accounts) > 0 {
		return c.keyedWallets()
	}
	return c.remoteWallets(ctx)
}

func (c *Connection) keyedWallets() ([]usecase.WalletClient, error) {
	wallets := make([]usecase.WalletClient, 0, len(c.network.Accounts))
	for i, account := range c.network.Accounts {
		key, err := parsePrivateKey(account)
		if err != nil {
			return nil, &domain.NoSignerError{
				Network: c.network.Name,
				Err:     fmt.Errorf("account %d: %w", i, err),
			}
		}
		wallets = append(wallets, &KeyedWallet{
			key:     key,
			address: crypto.PubkeyToAddress(key.PublicKey),
			chainID: c.chainID,
			waiter:  c.waiter(),
		})
	}
	return wallets, nil
}

func (c *Connection) remoteWallets(ctx context.Context) ([]usecase.WalletClient, error) {
	if c.rpc == nil {
		return nil, nil
	}

	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		// Public endpoints commonly reject eth_accounts; that means no signer
		c.log.Debug("eth_accounts unavailable", "error", err)
		return nil, nil
	}

	wallets := make([]usecase.WalletClient, 0, len(accounts))
	for _, account := range accounts {
		wallets = append(wallets, &RemoteWallet{
			address: account,
			rpc:     c.rpc,
			waiter:  c.waiter(),
		})
	}
	return wallets, nil
}

func (c *Connection) waiter() *confirmationWaiter {
	return &confirmationWaiter{
		backend:      c.backend,
		pollInterval: c.pollInterval,
		log:          c.log,
	}
}

// Close releases the underlying client
func (c *Connection) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// parsePrivateKey parses a hex private key with or without 0x prefix.
// The key material is never included in errors.
func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key")
	}
	return key, nil
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.NetworkConnector = (*Connector)(nil)
	_ usecase.ChainConnection  = (*Connection)(nil)
)
