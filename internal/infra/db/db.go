package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lumeo-io/asset-catalog/internal/config"
	"github.com/lumeo-io/asset-catalog/internal/modules/model"
)

func New(cfg *config.Config) (*gorm.DB, error) {
	d, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	}
	if cfg.Database.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	}

	return d, nil
}

// Migrate creates the schema. PostGIS must be installed for the
// geography column on assets.
func Migrate(d *gorm.DB) error {
	if err := d.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return err
	}
	if err := d.SetupJoinTable(&model.Asset{}, "Tags", &model.AssetTag{}); err != nil {
		return err
	}
	return d.AutoMigrate(
		&model.Asset{},
		&model.AssetDimension{},
		&model.AssetMetadata{},
		&model.Tag{},
		&model.AssetTag{},
	)
}
