package bootstrap

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lumeo-io/asset-catalog/internal/config"
	"github.com/lumeo-io/asset-catalog/internal/infra/blob"
	"github.com/lumeo-io/asset-catalog/internal/infra/cache"
	"github.com/lumeo-io/asset-catalog/internal/infra/db"
	"github.com/lumeo-io/asset-catalog/internal/infra/logger"
	"github.com/lumeo-io/asset-catalog/internal/modules/handler"
	"github.com/lumeo-io/asset-catalog/internal/modules/repo"
	"github.com/lumeo-io/asset-catalog/internal/modules/service"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// RabbitMQ connection; optional, services are nil-safe
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	// S3; optional, services are nil-safe
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.S3.Bucket == "" {
			return nil, nil
		}
		return blob.NewS3(context.Background(), cfg)
	})
	// presign expire duration
	do.Provide(inj, func(i *do.Injector) (func() time.Duration, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return func() time.Duration {
			if cfg.S3.PresignExpireSec <= 0 {
				return 15 * time.Minute
			}
			return time.Duration(cfg.S3.PresignExpireSec) * time.Second
		}, nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.AssetRepo, error) {
		return repo.NewAssetRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TagRepo, error) {
		return repo.NewTagRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Aggregate cache store
	do.Provide(inj, func(i *do.Injector) (*cache.TypeCounts, error) {
		return cache.NewTypeCounts(do.MustInvoke[*redis.Client](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AssetService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewAssetService(
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[repo.TagRepo](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.Queue,
			do.MustInvoke[func() time.Duration](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.StatsService, error) {
		return service.NewStatsService(
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[*cache.TypeCounts](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AssetHandler, error) {
		return handler.NewAssetHandler(do.MustInvoke[service.AssetService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.StatsHandler, error) {
		return handler.NewStatsHandler(do.MustInvoke[service.StatsService](i)), nil
	})

	return inj
}
