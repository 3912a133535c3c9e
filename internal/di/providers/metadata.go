package providers

import (
	"github.com/samber/do/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/config"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata/omdb"
	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
)

// OMDbClientHandle wraps the OMDb client with shutdown capability.
type OMDbClientHandle struct {
	*omdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *OMDbClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideOMDbClient provides the OMDb API client.
func ProvideOMDbClient(i do.Injector) (*OMDbClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := omdb.New(omdb.Config{
		BaseURL:           cfg.Metadata.BaseURL,
		APIKey:            cfg.Metadata.APIKey,
		Timeout:           cfg.Metadata.Timeout,
		MaxRetries:        cfg.Metadata.MaxRetries,
		RequestsPerSecond: cfg.Metadata.RequestsPerSecond,
	}, log.Component("omdb"))
	if err != nil {
		return nil, err
	}

	if cfg.Metadata.APIKey == "" {
		log.Warn("OMDB_API_KEY is not set; lookups will fail and recommendations fall back to trending")
	}
	log.Info("OMDb client initialized",
		"base_url", cfg.Metadata.BaseURL,
		"timeout", cfg.Metadata.Timeout,
		"max_retries", cfg.Metadata.MaxRetries,
	)

	return &OMDbClientHandle{Client: client}, nil
}

// ProvideEngine provides the recommendation engine.
func ProvideEngine(i do.Injector) (*recommend.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*OMDbClientHandle](i)

	return recommend.NewEngine(client.Client, cfg.Metadata.Concurrency, log.Component("recommend")), nil
}
