package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/product-identification/pid-deploy/internal/adapters/metrics"
	"github.com/product-identification/pid-deploy/internal/adapters/repository/deployments"
	"github.com/product-identification/pid-deploy/internal/app"
	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWallet struct {
	address  common.Address
	deployed common.Address
	err      error
	block    bool
	calls    [][]any
}

func (w *stubWallet) Address() common.Address { return w.address }

func (w *stubWallet) DeployContract(ctx context.Context, artifact *models.Artifact, args []any, confirmations uint64) (*models.DeployedContract, error) {
	w.calls = append(w.calls, args)
	if w.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if w.err != nil {
		return nil, w.err
	}
	return &models.DeployedContract{
		Address:       w.deployed,
		TxHash:        common.HexToHash("0x01"),
		BlockNumber:   1,
		GasUsed:       21000,
		Confirmations: confirmations,
	}, nil
}

type stubConnection struct {
	wallets []usecase.WalletClient
}

func (c *stubConnection) ChainID() uint64 { return 31337 }

func (c *stubConnection) WalletClients(ctx context.Context) ([]usecase.WalletClient, error) {
	return c.wallets, nil
}

func (c *stubConnection) Close() {}

type stubConnector struct {
	conn *stubConnection
	err  error
}

func (c *stubConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainConnection, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.conn, nil
}

type stubArtifacts struct{}

func (stubArtifacts) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if name != "ProductIdentification" {
		return nil, domain.ErrArtifactNotFound
	}
	return &models.Artifact{Name: name, Bytecode: []byte{0x60, 0x80}}, nil
}

type stubNetworks struct{}

func (stubNetworks) GetNetworks(ctx context.Context) []string { return []string{"localhost"} }

func (stubNetworks) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	return &config.Network{Name: name, RPCURL: "http://127.0.0.1:8545"}, nil
}

type harness struct {
	connector  *stubConnector
	networkErr error
	cmd        *cobra.Command
	dataDir    string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
}

func newHarness(t *testing.T, connector *stubConnector) *harness {
	t.Helper()
	color.NoColor = true
	t.Setenv("PID_NON_INTERACTIVE", "true")
	return &harness{connector: connector, dataDir: t.TempDir()}
}

func (h *harness) factory(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error) {
	cfg := &config.RuntimeConfig{
		DataDir:        h.dataDir,
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		Network:        &config.Network{Name: v.GetString("network"), RPCURL: "http://127.0.0.1:8545"},
		Deploy: config.DeploySettings{
			Contract:      v.GetString("contract"),
			Title:         v.GetString("title"),
			Confirmations: v.GetUint64("confirmations"),
			Save:          v.GetBool("save"),
		},
	}
	if h.networkErr != nil {
		cfg.Network, cfg.NetworkError = nil, h.networkErr
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := deployments.NewFileRepository(h.dataDir)

	return app.NewApp(
		cfg,
		usecase.NewDeployContract(cfg, h.connector, stubArtifacts{}, repo, metrics.NewRecorder(cfg), sink, log),
		usecase.NewListNetworks(cfg, stubNetworks{}, h.connector),
		usecase.NewListDeployments(repo, sink),
	)
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	cmd := NewRootCmdWithFactory(h.factory)
	h.cmd = cmd
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	cmd.SetArgs(args)
	return Execute(context.Background(), cmd)
}

var (
	signer   = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	contract = common.HexToAddress("0xBEEFBEEFBEEFBEEFBEEFBEEFBEEFBEEFBEEFBEEF")
)

func TestDeploy_EndToEnd(t *testing.T) {
	wallet := &stubWallet{address: signer, deployed: contract}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	code := h.run()

	assert.Equal(t, 0, code)
	out := h.stdout.String()
	assert.Contains(t, out, "Deploying contracts with the account: "+signer.Hex()+"\n")
	assert.Contains(t, out, "✅ Product System deployed successfully!\n")
	assert.Contains(t, out, "📍 Contract Address: "+contract.Hex()+"\n")
	assert.Less(t, bytes.Index(h.stdout.Bytes(), []byte("Deploying contracts")), bytes.Index(h.stdout.Bytes(), []byte("Contract Address")))
	assert.Empty(t, h.stderr.String())

	require.Len(t, wallet.calls, 1)
	assert.Empty(t, wallet.calls[0])
	assert.NotNil(t, wallet.calls[0])
}

func TestDeploy_Subcommand(t *testing.T) {
	wallet := &stubWallet{address: signer, deployed: contract}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	assert.Equal(t, 0, h.run("deploy", "--network", "sepolia"))
	assert.Contains(t, h.stdout.String(), "📍 Contract Address: "+contract.Hex())
	assert.Len(t, wallet.calls, 1)
}

func TestDeploy_Unreachable(t *testing.T) {
	h := newHarness(t, &stubConnector{err: errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")})

	code := h.run()

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "Error: failed to connect to network localhost")
	assert.Contains(t, h.stderr.String(), "connection refused")
	assert.NotContains(t, h.stdout.String(), "✅")
}

func TestDeploy_NoSigners(t *testing.T) {
	h := newHarness(t, &stubConnector{conn: &stubConnection{}})

	code := h.run()

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "Error: no signer available for network localhost")
	assert.NotContains(t, h.stdout.String(), "Deploying contracts with the account")
}

func TestDeploy_Rejected(t *testing.T) {
	wallet := &stubWallet{address: signer, err: errors.New("insufficient funds for gas * price + value")}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	code := h.run()

	assert.Equal(t, 1, code)
	assert.Len(t, wallet.calls, 1)
	assert.Contains(t, h.stdout.String(), "Deploying contracts with the account: "+signer.Hex())
	assert.NotContains(t, h.stdout.String(), "✅")
	assert.Contains(t, h.stderr.String(), "Error: failed to deploy ProductIdentification: insufficient funds")
}

func TestDeploy_UnknownContract(t *testing.T) {
	wallet := &stubWallet{address: signer, deployed: contract}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	assert.Equal(t, 1, h.run("--contract", "Missing"))
	assert.Contains(t, h.stderr.String(), "artifact not found")
	assert.Empty(t, wallet.calls)
}

func TestDeploy_TwiceGivesTwoRecords(t *testing.T) {
	wallet := &stubWallet{address: signer, deployed: contract}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	require.Equal(t, 0, h.run("--save"))
	assert.Contains(t, h.stdout.String(), "📝 Recorded as 31337/ProductIdentification/"+contract.Hex())

	wallet.deployed = common.HexToAddress("0xCAFECAFECAFECAFECAFECAFECAFECAFECAFECAFE")
	require.Equal(t, 0, h.run("--save"))
	assert.Len(t, wallet.calls, 2)

	require.Equal(t, 0, h.run("deployments", "-o", "json"))
	assert.Contains(t, h.stdout.String(), contract.Hex())
	assert.Contains(t, h.stdout.String(), wallet.deployed.Hex())
}

func TestDeploy_TimeoutAbortsConfirmation(t *testing.T) {
	wallet := &stubWallet{address: signer, block: true}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	start := time.Now()
	code := h.run("--timeout", "100ms")

	assert.Equal(t, 1, code)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Len(t, wallet.calls, 1)
	assert.Contains(t, h.stderr.String(), "Error: failed to deploy ProductIdentification: context deadline exceeded")
	assert.NotContains(t, h.stdout.String(), "✅")
}

func TestDeploy_TimeoutReleasedOnFailure(t *testing.T) {
	wallet := &stubWallet{address: signer, err: errors.New("nonce too low")}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	require.Equal(t, 1, h.run("--timeout", "1h"))

	// PostRun hooks are skipped when RunE fails; the run context must still be done
	ctx := h.cmd.Context()
	require.NotNil(t, ctx)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestDeployments_AddressLookup(t *testing.T) {
	wallet := &stubWallet{address: signer, deployed: contract}
	h := newHarness(t, &stubConnector{conn: &stubConnection{wallets: []usecase.WalletClient{wallet}}})

	require.Equal(t, 0, h.run("--save"))
	other := common.HexToAddress("0xCAFECAFECAFECAFECAFECAFECAFECAFECAFECAFE")
	wallet.deployed = other
	require.Equal(t, 0, h.run("--save"))

	require.Equal(t, 0, h.run("deployments", "--chain-id", "31337", "--address", contract.Hex(), "-o", "json"))
	assert.Contains(t, h.stdout.String(), contract.Hex())
	assert.NotContains(t, h.stdout.String(), other.Hex())

	require.Equal(t, 0, h.run("deployments", "--chain-id", "1", "--address", contract.Hex()))
	assert.Equal(t, "No deployments found\n", h.stdout.String())

	assert.Equal(t, 1, h.run("deployments", "--address", contract.Hex()))
	assert.Contains(t, h.stderr.String(), "Error: address lookup requires a chain ID")
}

func TestUnresolvedNetwork_OnlyDeployFails(t *testing.T) {
	h := newHarness(t, &stubConnector{err: errors.New("should not dial")})
	h.networkErr = &domain.ConnectionError{Network: "nowhere", Err: errors.New("network 'nowhere' not found in pid.toml [networks]")}

	assert.Equal(t, 0, h.run("deployments"))
	assert.Equal(t, "No deployments found\n", h.stdout.String())

	assert.Equal(t, 0, h.run("version"))

	assert.Equal(t, 1, h.run())
	assert.Contains(t, h.stderr.String(), "Error: failed to connect to network nowhere")
	assert.Contains(t, h.stderr.String(), "not found in pid.toml [networks]")
}

func TestDeployments_Empty(t *testing.T) {
	h := newHarness(t, &stubConnector{})

	assert.Equal(t, 0, h.run("deployments"))
	assert.Equal(t, "No deployments found\n", h.stdout.String())
}

func TestDeployments_BadFormat(t *testing.T) {
	h := newHarness(t, &stubConnector{})

	assert.Equal(t, 1, h.run("deployments", "-o", "xml"))
	assert.Contains(t, h.stderr.String(), `Error: unknown output format "xml"`)
}

func TestNetworks_Offline(t *testing.T) {
	h := newHarness(t, &stubConnector{err: errors.New("should not dial")})

	assert.Equal(t, 0, h.run("networks", "--offline"))
	assert.Contains(t, h.stdout.String(), "* ✅ localhost - Chain ID: any - node accounts")
}

func TestVersion(t *testing.T) {
	h := newHarness(t, &stubConnector{})

	assert.Equal(t, 0, h.run("version"))
	assert.Contains(t, h.stdout.String(), "pid-deploy version dev")
}

func TestExtraArgsRejected(t *testing.T) {
	h := newHarness(t, &stubConnector{})

	assert.Equal(t, 1, h.run("deploy", "extra"))
	assert.Contains(t, h.stderr.String(), "Error:")
}
