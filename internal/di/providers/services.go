package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/logger"
	"github.com/listenupapp/readingorder/internal/service"
)

// ProvideReadingOrderService provides the reading-order service.
func ProvideReadingOrderService(i do.Injector) (*service.ReadingOrderService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	var opts []service.ReadingOrderOption
	if cfg.Series.SerializeWrites {
		opts = append(opts, service.WithSerializedWrites())
	}

	return service.NewReadingOrderService(
		storeHandle.Backend,
		storeHandle.Backend,
		sseHandle.Manager,
		log.Component("reading_order"),
		opts...,
	), nil
}

// ProvideSettingsService provides the preferences service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Backend, sseHandle.Manager, log.Component("settings")), nil
}
