package adapters

import (
	"github.com/google/wire"
	"github.com/product-identification/pid-deploy/internal/adapters/blockchain"
	"github.com/product-identification/pid-deploy/internal/adapters/contracts"
	"github.com/product-identification/pid-deploy/internal/adapters/metrics"
	"github.com/product-identification/pid-deploy/internal/adapters/repository/deployments"
	"github.com/product-identification/pid-deploy/internal/config"
	domainconfig "github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// ProvideProjectConfig provides the parsed pid.toml from RuntimeConfig
func ProvideProjectConfig(cfg *domainconfig.RuntimeConfig) *domainconfig.ProjectConfig {
	return cfg.ProjectConfig
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	contracts.NewArtifactStore,
	wire.Bind(new(usecase.ArtifactStore), new(*contracts.ArtifactStore)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	ProvideProjectConfig,
	config.NewNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.NetworkConnector), new(*blockchain.Connector)),
)

// MetricsSet provides the metrics recorder
var MetricsSet = wire.NewSet(
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ConfigSet,
	BlockchainSet,
	MetricsSet,
)
