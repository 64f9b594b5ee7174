// Package di provides dependency injection configuration for the reading-order server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/readingorder/internal/api"
	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/di/providers"
	"github.com/listenupapp/readingorder/internal/logger"
	"github.com/listenupapp/readingorder/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is loaded from flags, environment and .env.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	registerProviders(injector)
	return injector
}

// NewContainerWithConfig is like NewContainer with a preloaded configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	registerProviders(injector)
	return injector
}

func registerProviders(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideReadingOrderService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes every service, starting the HTTP server last.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.ReadingOrderService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)

	_ = do.MustInvoke[*api.Server](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
