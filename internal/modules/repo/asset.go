package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
	"github.com/lumeo-io/asset-catalog/internal/pkg/apperr"
)

// AssetPatch carries a partial update; nil fields are left untouched.
type AssetPatch struct {
	AssetType  *model.AssetType
	FileName   *string
	FilePath   *string
	FileSize   *int64
	Location   *model.GeoPoint
	Dimensions *model.AssetDimension
	Metadata   map[string]interface{}
	Tags       *[]string
}

type AssetRepo interface {
	Create(ctx context.Context, a *model.Asset, tagNames []string) error
	Get(ctx context.Context, id uint) (*model.Asset, error)
	List(ctx context.Context, offset, limit int) ([]model.Asset, error)
	Update(ctx context.Context, id uint, patch AssetPatch) (*model.Asset, error)
	Delete(ctx context.Context, id uint) (*model.Asset, error)
	Search(ctx context.Context, query string) ([]model.Asset, error)
	Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Asset, error)
	CountsByType(ctx context.Context) (map[model.AssetType]int64, error)
}

type assetRepo struct{ db *gorm.DB }

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

func preloadAsset(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Dimensions").Preload("Metadata").Preload("Tags")
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict
	default:
		return apperr.Store(err)
	}
}

// Create persists the asset together with its optional dimension and
// metadata children and its tag associations as one transaction.
func (r *assetRepo) Create(ctx context.Context, a *model.Asset, tagNames []string) error {
	return mapErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(a).Error; err != nil {
			return err
		}
		for _, name := range tagNames {
			t, err := ensureTag(tx, name)
			if err != nil {
				return err
			}
			link := model.AssetTag{AssetID: a.ID, TagID: t.ID}
			if err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&link).Error; err != nil {
				return err
			}
			a.Tags = append(a.Tags, *t)
		}
		return nil
	}))
}

func (r *assetRepo) Get(ctx context.Context, id uint) (*model.Asset, error) {
	var a model.Asset
	if err := preloadAsset(r.db.WithContext(ctx)).First(&a, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context, offset, limit int) ([]model.Asset, error) {
	var items []model.Asset
	err := preloadAsset(r.db.WithContext(ctx)).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return items, nil
}

func (r *assetRepo) Update(ctx context.Context, id uint, patch AssetPatch) (*model.Asset, error) {
	var out model.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Asset
		if err := tx.First(&a, id).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.AssetType != nil {
			updates["asset_type"] = *patch.AssetType
		}
		if patch.FileName != nil {
			updates["file_name"] = *patch.FileName
		}
		if patch.FilePath != nil {
			updates["file_path"] = *patch.FilePath
		}
		if patch.FileSize != nil {
			updates["file_size"] = *patch.FileSize
		}
		if patch.Location != nil {
			// a present location fully replaces the stored point
			updates["location"] = gorm.Expr(
				"ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography",
				patch.Location.Longitude, patch.Location.Latitude,
			)
		}
		if len(updates) == 0 {
			// still a mutation: sub-records may change below
			updates["updated_at"] = time.Now()
		}
		if err := tx.Model(&a).Updates(updates).Error; err != nil {
			return err
		}

		if patch.Dimensions != nil {
			dim := model.AssetDimension{
				AssetID: a.ID,
				Width:   patch.Dimensions.Width,
				Height:  patch.Dimensions.Height,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "asset_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"width", "height"}),
			}).Create(&dim).Error; err != nil {
				return err
			}
		}

		if patch.Metadata != nil {
			meta := model.AssetMetadata{
				AssetID: a.ID,
				Content: datatypes.JSONMap(patch.Metadata),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "asset_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"metadata_content"}),
			}).Create(&meta).Error; err != nil {
				return err
			}
		}

		if patch.Tags != nil {
			// a present tag list replaces the whole set
			if err := tx.Where("asset_id = ?", a.ID).Delete(&model.AssetTag{}).Error; err != nil {
				return err
			}
			for _, name := range *patch.Tags {
				t, err := ensureTag(tx, name)
				if err != nil {
					return err
				}
				link := model.AssetTag{AssetID: a.ID, TagID: t.ID}
				if err := tx.Omit(clause.Associations).
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&link).Error; err != nil {
					return err
				}
			}
		}

		return preloadAsset(tx).First(&out, a.ID).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// Delete removes the asset and its dimension, metadata and association
// rows; tag rows survive. Returns the last-known state.
func (r *assetRepo) Delete(ctx context.Context, id uint) (*model.Asset, error) {
	var a model.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := preloadAsset(tx).First(&a, id).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&model.AssetTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&model.AssetDimension{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&model.AssetMetadata{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Asset{}, id).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// Search matches query as a case-insensitive substring against file_name,
// asset_type and tag names, OR across the three, unranked.
func (r *assetRepo) Search(ctx context.Context, query string) ([]model.Asset, error) {
	like := "%" + query + "%"
	var items []model.Asset
	err := preloadAsset(r.db.WithContext(ctx)).
		Distinct("assets.*").
		Joins("LEFT JOIN asset_tags ON asset_tags.asset_id = assets.id").
		Joins("LEFT JOIN tags ON tags.id = asset_tags.tag_id").
		Where("assets.file_name ILIKE ? OR assets.asset_type ILIKE ? OR tags.name ILIKE ?", like, like, like).
		Order("assets.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return items, nil
}

// Nearby returns assets within radiusMeters great-circle distance of the
// center, nearest first; assets without a location are excluded.
func (r *assetRepo) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Asset, error) {
	var items []model.Asset
	err := preloadAsset(r.db.WithContext(ctx)).
		Where("location IS NOT NULL").
		Where("ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
			lng, lat, radiusMeters).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ST_Distance(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) ASC, id ASC",
			Vars:               []interface{}{lng, lat},
			WithoutParentheses: true,
		}}).
		Find(&items).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return items, nil
}

type typeCountRow struct {
	AssetType model.AssetType `gorm:"column:asset_type"`
	Count     int64           `gorm:"column:count"`
}

// CountsByType computes live per-type counts, bypassing the aggregate cache.
func (r *assetRepo) CountsByType(ctx context.Context) (map[model.AssetType]int64, error) {
	var rows []typeCountRow
	err := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Select("asset_type, COUNT(*) AS count").
		Group("asset_type").
		Scan(&rows).Error
	if err != nil {
		return nil, mapErr(err)
	}
	out := make(map[model.AssetType]int64, len(rows))
	for _, row := range rows {
		out[row.AssetType] = row.Count
	}
	return out, nil
}
