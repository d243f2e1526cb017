package model

import (
	"time"

	"gorm.io/datatypes"
)

type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeVideo AssetType = "video"
)

func (t AssetType) Valid() bool {
	return t == AssetTypeImage || t == AssetTypeVideo
}

type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AssetType AssetType `gorm:"type:varchar(16);not null;index" json:"asset_type"`
	FileName  string    `gorm:"type:text;not null" json:"file_name"`
	FilePath  string    `gorm:"type:text;not null" json:"file_path"`
	FileSize  int64     `gorm:"type:bigint;not null" json:"file_size"`
	Location  *GeoPoint `gorm:"type:geography(Point,4326)" json:"location"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Asset <-> AssetDimension
	Dimensions *AssetDimension `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"dimensions,omitempty"`

	// Asset <-> AssetMetadata
	Metadata *AssetMetadata `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"metadata,omitempty"`

	// Asset <-> Tag
	Tags []Tag `gorm:"many2many:asset_tags;" json:"tags"`
}

func (Asset) TableName() string { return "assets" }

// AssetDimension is the optional 1:1 pixel-size record, kept out of the
// assets table so the asset row stays narrow.
type AssetDimension struct {
	AssetID uint `gorm:"primaryKey" json:"-"`
	Width   int  `gorm:"not null" json:"width"`
	Height  int  `gorm:"not null" json:"height"`
}

func (AssetDimension) TableName() string { return "asset_dimensions" }

// AssetMetadata is the optional 1:1 free-form jsonb blob of an asset.
type AssetMetadata struct {
	AssetID uint              `gorm:"primaryKey" json:"-"`
	Content datatypes.JSONMap `gorm:"column:metadata_content;type:jsonb;not null" swaggertype:"object" json:"metadata_content"`
}

func (AssetMetadata) TableName() string { return "asset_metadata" }
