package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/widget-dashboard/internal/config"
	"github.com/GregMSThompson/widget-dashboard/internal/store"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Slot      store.Slot
	Firestore *firestore.Client
	// Location names where the slot lives: a file path, a project ID or "memory".
	Location string

	closers []func() error
}

// Run builds the logger and opens the configured storage slot. A nil handler
// uses the Cloud Run JSON handler on stdout. The logger is always set, even
// when an error is returned.
func Run(cfg *config.Config, handler func(level slog.Level) slog.Handler) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	if handler == nil {
		handler = logger.NewCloudRunHandler
	}
	bs.Log = logger.New(cfg.LogLevel, handler)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		bs.Slot = store.NewMemorySlot()
		bs.Location = config.BackendMemory
	case config.BackendSQLite:
		var slot *store.SQLiteSlot
		slot, err = store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return bs, err
		}
		bs.Slot = slot
		bs.Location = slot.Path()
		bs.closers = append(bs.closers, slot.Close)
	case config.BackendFirestore:
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.Slot = store.NewFirestoreSlot(bs.Firestore, "")
		bs.Location = cfg.ProjectID
		bs.closers = append(bs.closers, bs.Firestore.Close)
	default:
		return bs, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	bs.Log.Info("storage ready", "backend", cfg.StoreBackend, "location", bs.Location)
	return bs, nil
}

// Close releases the storage backend.
func (bs *Bootstrap) Close() error {
	var errList []error
	for i := len(bs.closers) - 1; i >= 0; i-- {
		if err := bs.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	bs.closers = nil
	return errors.Join(errList...)
}
