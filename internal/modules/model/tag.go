package model

// Tag is shared vocabulary: created lazily on first use, never deleted.
// The unique index on name is what makes concurrent get-or-create safe.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (Tag) TableName() string { return "tags" }

type AssetTag struct {
	AssetID uint `gorm:"primaryKey" json:"asset_id"`
	TagID   uint `gorm:"primaryKey;index" json:"tag_id"`

	// AssetTag <-> Asset
	Asset Asset `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"asset"`

	// AssetTag <-> Tag
	Tag Tag `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"tag"`
}

func (AssetTag) TableName() string { return "asset_tags" }
