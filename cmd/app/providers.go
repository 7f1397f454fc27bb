package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/domain/user"
	"github.com/Slothdemon22/CampusMinus/internal/infra/config"
	"github.com/Slothdemon22/CampusMinus/internal/infra/embedder"
	"github.com/Slothdemon22/CampusMinus/internal/infra/llm/chatgpt"
	"github.com/Slothdemon22/CampusMinus/internal/infra/questionrepo"
	"github.com/Slothdemon22/CampusMinus/internal/infra/searchstore"
	"github.com/Slothdemon22/CampusMinus/internal/infra/storage"
	"github.com/Slothdemon22/CampusMinus/internal/infra/userrepo"
	"github.com/Slothdemon22/CampusMinus/internal/infra/vectorstore"
)

func provideQuestionConfig(cfg *config.Config) question.Config {
	return question.Config{
		Dimensions:         cfg.Embedding.Dimensions,
		DefaultSearchLimit: cfg.Search.DefaultLimit,
		MaxSearchLimit:     cfg.Search.MaxLimit,
		TrendingSize:       cfg.Search.TrendingSize,
	}
}

// providePostgresPool returns nil when Postgres is unavailable; the
// repository providers fall back to their memory twins in that case.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideUserRepository(pool *pgxpool.Pool) user.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideQuestionRepository(pool *pgxpool.Pool, users user.Repository, logger *slog.Logger) question.Repository {
	if pool == nil {
		return questionrepo.NewMemoryRepository(vectorstore.NewMemory(), users)
	}
	return questionrepo.NewPostgresRepository(pool, vectorstore.NewPostgres(pool, logger), logger)
}

func provideEmbedder(cfg *config.Config, logger *slog.Logger) (question.Embedder, error) {
	if cfg.Embedding.Provider == "deterministic" {
		logger.Info("deterministic embedder enabled")
		return embedder.NewDeterministicEmbedder(cfg.Embedding.Dimensions), nil
	}
	if strings.TrimSpace(cfg.Embedding.APIKey) == "" {
		logger.Warn("embedding api key not set, questions will be created without vectors and search will be unavailable")
		return embedder.Disabled{}, nil
	}
	client, err := chatgpt.NewClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Timeout)
	if err != nil {
		return nil, err
	}
	return embedder.NewOpenAIEmbedder(client, cfg.Embedding.Model, cfg.Embedding.MaxInputTokens, logger), nil
}

func provideSearchLog(cfg *config.Config, logger *slog.Logger) question.SearchLog {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory trending store", "error", err)
			return searchstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory trending store", "error", err)
			return searchstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory trending store", "error", err)
		} else {
			logger.Info("valkey trending store enabled", "addr", cfg.Valkey.Addr)
			return searchstore.NewValkeyStore(client, "search")
		}
	}
	return searchstore.NewMemoryStore()
}

func provideImageStorage(cfg *config.Config, logger *slog.Logger) question.ImageStorage {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		return storage.NewPassthroughStorage()
	}
	s, err := storage.NewMinioStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.URLExpiry,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize image storage, serving raw keys", "error", err)
		return storage.NewPassthroughStorage()
	}
	logger.Info("image storage enabled", "bucket", cfg.Storage.Bucket)
	return s
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
