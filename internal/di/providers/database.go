package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/logger"
	"github.com/listenupapp/readingorder/internal/sse"
	"github.com/listenupapp/readingorder/internal/store"
	"github.com/listenupapp/readingorder/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := shutdownContext()
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Component("sse"))

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the configured storage backend with shutdown capability.
type StoreHandle struct {
	store.Backend
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the backend selected by STORE_BACKEND.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	backend, path, err := OpenBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Store.Backend, "path", path)

	return &StoreHandle{Backend: backend}, nil
}

// OpenBackend opens the configured backend and returns it with its on-disk path.
// The seed and inspection tools share it with the server.
func OpenBackend(cfg *config.Config, log *logger.Logger) (store.Backend, string, error) {
	if err := os.MkdirAll(cfg.Store.DataPath, 0o750); err != nil {
		return nil, "", fmt.Errorf("create data path: %w", err)
	}

	storeLog := log.Component("store")

	switch cfg.Store.Backend {
	case config.BackendBadger:
		path := cfg.BadgerPath()
		db, err := store.New(path, storeLog)
		if err != nil {
			return nil, path, err
		}
		return db, path, nil
	case config.BackendSQLite:
		path := cfg.SQLitePath()
		db, err := sqlite.Open(path, storeLog)
		if err != nil {
			return nil, path, err
		}
		return db, path, nil
	default:
		return nil, "", fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
