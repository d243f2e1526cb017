package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
)

type TagRepo interface {
	Ensure(ctx context.Context, name string) (*model.Tag, error)
	Attach(ctx context.Context, assetID uint, name string) (*model.Tag, error)
}

type tagRepo struct{ db *gorm.DB }

func NewTagRepo(db *gorm.DB) TagRepo {
	return &tagRepo{db: db}
}

// ensureTag is insert-or-fetch: ON CONFLICT (name) DO NOTHING, then a
// re-fetch when the insert lost. The unique index on tags.name is the
// arbiter under concurrent creation, not a check-then-insert.
func ensureTag(tx *gorm.DB, name string) (*model.Tag, error) {
	t := model.Tag{Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&t).Error; err != nil {
		return nil, err
	}
	if t.ID != 0 {
		return &t, nil
	}
	// insert was a no-op, someone else owns the name
	if err := tx.Where("name = ?", name).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) Ensure(ctx context.Context, name string) (*model.Tag, error) {
	t, err := ensureTag(r.db.WithContext(ctx), name)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

// Attach ensures the tag and links it to the asset; re-attaching an
// already-attached tag is a no-op.
func (r *tagRepo) Attach(ctx context.Context, assetID uint, name string) (*model.Tag, error) {
	var t *model.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Asset
		if err := tx.Select("id").First(&a, assetID).Error; err != nil {
			return err
		}
		var err error
		if t, err = ensureTag(tx, name); err != nil {
			return err
		}
		link := model.AssetTag{AssetID: assetID, TagID: t.ID}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&link).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}
