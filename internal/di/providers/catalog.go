package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	"github.com/popcornpicks/popcornpicks-server/internal/config"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
)

// CatalogHandle wraps the catalog and its file watcher.
type CatalogHandle struct {
	*catalog.Catalog
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	h.cancel()
	<-h.done
	return nil
}

// ProvideCatalog loads the movie catalog and starts watching its file.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	catLog := log.Component("catalog")
	cat, err := catalog.New(cfg.Catalog.Path, catLog)
	if err != nil {
		return nil, err
	}

	snap := cat.Snapshot()
	log.Info("Catalog loaded", "source", snap.Source, "movies", snap.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cat.Watch(ctx, catalog.DefaultSettleDelay); err != nil {
			catLog.Warn("catalog watcher stopped", "error", err)
		}
	}()

	return &CatalogHandle{Catalog: cat, cancel: cancel, done: done}, nil
}
