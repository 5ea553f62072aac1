package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/adapters/httpapi"
	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
	"github.com/niche/rfp-tracker/internal/factory"
	"github.com/niche/rfp-tracker/internal/logging"
	"github.com/niche/rfp-tracker/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}

	// Register RFP repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.RFPRepository, error) {
		return f.CreateRepository()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register RFP service
	if err := container.Provide(core.NewRFPService); err != nil {
		return nil, err
	}

	// Register API server
	if err := container.Provide(func(
		service *core.RFPService,
		notifier core.Notifier,
		logger *zap.Logger,
		cfg *config.Config,
	) ports.Server {
		return httpapi.NewServer(service, notifier, logger, cfg.GetServer().ListenAddress, cfg.GetAuth())
	}); err != nil {
		return nil, err
	}

	return container, nil
}
