package cmd

import (
	"fmt"

	"ddn-storage/core/config"
	"ddn-storage/core/logger"
	"ddn-storage/core/objectstore"
	"ddn-storage/core/storage"
	"ddn-storage/core/transport"

	"go.uber.org/zap"
)

// newStorageClient builds the client described by cfg.Client. The object
// transport is backed by the configured object store.
func newStorageClient(cfg *config.Config, logg *zap.Logger, observers ...storage.Observer) (*storage.Client, error) {
	if !cfg.Client.IsValidTransport() {
		return nil, fmt.Errorf("unsupported transport %q", cfg.Client.Transport)
	}

	opts := append(cfg.Client.Options(),
		storage.WithLogger(logg),
		storage.WithObserver(storage.NewLogObserver(logg)),
	)
	for _, o := range observers {
		opts = append(opts, storage.WithObserver(o))
	}

	if cfg.Client.Transport == storage.TransportObject {
		store, err := objectstore.New(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		t := transport.NewObjectTransport(store, cfg.Storage, cfg.Client.ObjectKey)
		logg.Info("Using object transport", zap.String("object", t.Endpoint()))
		opts = append(opts, storage.WithTransport(t))
	}

	return storage.NewClient(cfg.Client.Endpoint, opts...), nil
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}
