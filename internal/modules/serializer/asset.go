package serializer

import (
	"sort"
	"time"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
)

// Asset is the external shape of a catalog entry: tags flattened to
// names, metadata to a plain object.
type Asset struct {
	ID         uint                   `json:"id"`
	AssetType  model.AssetType        `json:"asset_type"`
	FileName   string                 `json:"file_name"`
	FilePath   string                 `json:"file_path"`
	FileSize   int64                  `json:"file_size"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	Location   *model.GeoPoint        `json:"location,omitempty"`
	Dimensions *Dimensions            `json:"dimensions,omitempty"`
	Tags       []string               `json:"tags"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func BuildAsset(a *model.Asset) Asset {
	out := Asset{
		ID:        a.ID,
		AssetType: a.AssetType,
		FileName:  a.FileName,
		FilePath:  a.FilePath,
		FileSize:  a.FileSize,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Location:  a.Location,
		Tags:      make([]string, 0, len(a.Tags)),
	}
	for _, t := range a.Tags {
		out.Tags = append(out.Tags, t.Name)
	}
	sort.Strings(out.Tags)

	if a.Dimensions != nil {
		out.Dimensions = &Dimensions{Width: a.Dimensions.Width, Height: a.Dimensions.Height}
	}
	if a.Metadata != nil {
		out.Metadata = map[string]interface{}(a.Metadata.Content)
	}
	return out
}

func BuildAssets(items []model.Asset) []Asset {
	out := make([]Asset, 0, len(items))
	for i := range items {
		out = append(out, BuildAsset(&items[i]))
	}
	return out
}
