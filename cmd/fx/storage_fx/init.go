package storage_fx

import (
	"context"

	"go.uber.org/fx"

	"tripmate/internal/config"
	"tripmate/internal/storage"
)

var Module = fx.Provide(provideObjectStorage)

func provideObjectStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	return storage.NewS3Storage(context.Background(), cfg)
}
