package main

import (
	"context"
	"fmt"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/cli/cmd"
	"github.com/malusev998/fixerio-import/config"
	"github.com/malusev998/fixerio-import/fetchers"
	"github.com/malusev998/fixerio-import/metrics"
	"github.com/malusev998/fixerio-import/services"
	"github.com/malusev998/fixerio-import/storage"
)

func createStorages(ctx context.Context, opts cmd.Options) ([]currency.Storage, error) {
	providers, storageConfig, err := getStorageConfig(ctx, opts.Viper)
	if err != nil {
		return nil, err
	}

	storages := make([]currency.Storage, 0, len(providers))

	for _, p := range providers {
		st, err := storage.NewStorage(p, storageConfig[p])
		if err != nil {
			closeStorages(storages)
			return nil, fmt.Errorf("cannot create %s storage: %w", p, err)
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func closeStorages(storages []currency.Storage) error {
	var firstErr error

	for _, st := range storages {
		if err := st.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// newDependencies connects to the storages only when the command needs them.
func newDependencies(ctx context.Context, opts cmd.Options) (*cmd.Dependencies, error) {
	importer := fetchers.NewCurrencyFetcher(fetchers.FixerIoConfig{
		BaseConfig: fetchers.BaseConfig{
			Logger: opts.Logger,
		},
		Settings: config.NewScopedReader(opts.Viper, opts.Store),
		Metrics:  metrics.NewPrometheus(opts.Registerer),
	})

	var storages []currency.Storage

	if opts.Storage {
		var err error

		if storages, err = createStorages(ctx, opts); err != nil {
			return nil, err
		}
	}

	return &cmd.Dependencies{
		Importer: importer,
		Service: services.Service{
			Importer: importer,
			Storage:  storages,
			Provider: currency.FixerIoProvider,
		},
		Conversion: services.ConversionService{
			Ctx:      ctx,
			Storages: storages,
		},
		Close: func() error {
			return closeStorages(storages)
		},
	}, nil
}
