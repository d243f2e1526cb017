package serializer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
)

func TestBuildAsset(t *testing.T) {
	now := time.Now()
	a := &model.Asset{
		ID:        1,
		AssetType: model.AssetTypeImage,
		FileName:  "sunset.jpg",
		FilePath:  "assets/sunset.jpg",
		FileSize:  2048,
		CreatedAt: now,
		UpdatedAt: now,
		Location:  &model.GeoPoint{Latitude: 48.8566, Longitude: 2.3522},
		Dimensions: &model.AssetDimension{
			AssetID: 1,
			Width:   4000,
			Height:  3000,
		},
		Metadata: &model.AssetMetadata{
			AssetID: 1,
			Content: datatypes.JSONMap{"camera": "X100V"},
		},
		Tags: []model.Tag{
			{ID: 2, Name: "vacation"},
			{ID: 1, Name: "beach"},
		},
	}

	out := BuildAsset(a)

	assert.Equal(t, uint(1), out.ID)
	assert.Equal(t, model.AssetTypeImage, out.AssetType)
	assert.Equal(t, "sunset.jpg", out.FileName)
	assert.Equal(t, int64(2048), out.FileSize)
	// tag names are flattened and sorted regardless of load order
	assert.Equal(t, []string{"beach", "vacation"}, out.Tags)
	assert.NotNil(t, out.Dimensions)
	assert.Equal(t, 4000, out.Dimensions.Width)
	assert.Equal(t, 3000, out.Dimensions.Height)
	assert.Equal(t, "X100V", out.Metadata["camera"])
	assert.NotNil(t, out.Location)
	assert.Equal(t, 48.8566, out.Location.Latitude)
}

func TestBuildAsset_BareRecord(t *testing.T) {
	a := &model.Asset{
		ID:        2,
		AssetType: model.AssetTypeVideo,
		FileName:  "clip.mp4",
		FilePath:  "assets/clip.mp4",
	}

	out := BuildAsset(a)

	assert.Nil(t, out.Location)
	assert.Nil(t, out.Dimensions)
	assert.Nil(t, out.Metadata)
	// empty, not nil, so it serializes as []
	assert.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
}

func TestBuildAssets(t *testing.T) {
	items := []model.Asset{
		{ID: 1, AssetType: model.AssetTypeImage, FileName: "a.jpg"},
		{ID: 2, AssetType: model.AssetTypeVideo, FileName: "b.mp4"},
	}

	out := BuildAssets(items)

	assert.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)

	assert.Empty(t, BuildAssets(nil))
}
