package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/adapters/store"
	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
)

// StoreFactory creates RFP repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRepository creates an RFP repository based on the configuration
func (f *StoreFactory) CreateRepository() (core.RFPRepository, error) {
	storage := f.cfg.GetStorage()

	switch storage.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storage.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storage.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storage.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storage.Type)
	}
}
