package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/isbul/app-core/config"
	"github.com/isbul/app-core/internal/adapters/httpapi"
	"github.com/isbul/app-core/internal/adapters/memstore"
	rediskv "github.com/isbul/app-core/internal/adapters/redis"
	"github.com/isbul/app-core/internal/ports"
	"github.com/isbul/app-core/internal/service"
)

// NewKeyValueStore builds the configured key-value store. The returned
// close func releases the underlying connection (a no-op for the memory
// backend).
func NewKeyValueStore(cfg *config.AppConfig, logger *slog.Logger) (ports.KeyValueStore, func() error, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		logger.Info("using in-memory storage", "reason", "configured backend")
		return memstore.New(), func() error { return nil }, nil
	case config.StorageBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return rediskv.NewKVStoreWithPrefix(client, cfg.Redis.KeyPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewAPIClient builds the backend API client from configuration.
func NewAPIClient(cfg *config.AppConfig, logger *slog.Logger) (*httpapi.Client, error) {
	client, err := httpapi.NewClient(httpapi.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Extract: httpapi.ExtractExpressions{
			UserID:   cfg.API.Extract.UserID,
			Email:    cfg.API.Extract.Email,
			FullName: cfg.API.Extract.FullName,
			Phone:    cfg.API.Extract.Phone,
			Role:     cfg.API.Extract.Role,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return client, nil
}

// Core bundles the wired application core.
type Core struct {
	Controller *service.Controller
	Refresher  *service.ProfileRefresher
	CloseStore func() error
}

// NewCore wires storage, the API client, and the view/session
// controller from configuration.
func NewCore(cfg *config.AppConfig, logger *slog.Logger) (*Core, error) {
	kv, closeStore, err := NewKeyValueStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	api, err := NewAPIClient(cfg, logger)
	if err != nil {
		if cerr := closeStore(); cerr != nil {
			logger.Warn("close storage failed", "error", cerr)
		}
		return nil, err
	}

	sessions := service.NewKVSessionStore(service.SessionStoreOptions{
		KV:     kv,
		Key:    cfg.Storage.SessionKey,
		Logger: logger,
	})
	controller := service.NewController(service.ControllerOptions{
		Sessions: sessions,
		Auth:     api,
		Logger:   logger,
	})
	refresher := service.NewProfileRefresher(service.ProfileRefresherOptions{
		Controller: controller,
		API:        api,
		Logger:     logger,
	})

	return &Core{
		Controller: controller,
		Refresher:  refresher,
		CloseStore: closeStore,
	}, nil
}
