//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/product-identification/pid-deploy/internal/adapters"
	"github.com/product-identification/pid-deploy/internal/config"
	"github.com/product-identification/pid-deploy/internal/logging"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewListNetworks,
		usecase.NewListDeployments,

		// App
		NewApp,
	)
	return nil, nil
}
