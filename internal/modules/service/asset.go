package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/lumeo-io/asset-catalog/internal/infra/blob"
	mq "github.com/lumeo-io/asset-catalog/internal/infra/queue"
	"github.com/lumeo-io/asset-catalog/internal/modules/model"
	"github.com/lumeo-io/asset-catalog/internal/modules/repo"
	"github.com/lumeo-io/asset-catalog/internal/pkg/apperr"
	"github.com/lumeo-io/asset-catalog/internal/pkg/keygen"
)

const (
	eventAssetCreated     = "asset.created"
	eventAssetUpdated     = "asset.updated"
	eventAssetDeleted     = "asset.deleted"
	eventAssetTagAttached = "asset.tag_attached"
)

type AssetService interface {
	Create(ctx context.Context, in CreateAssetInput) (*model.Asset, error)
	Get(ctx context.Context, id uint) (*model.Asset, error)
	List(ctx context.Context, offset, limit int) ([]model.Asset, error)
	Update(ctx context.Context, id uint, in UpdateAssetInput) (*model.Asset, error)
	Delete(ctx context.Context, id uint) (*model.Asset, error)
	Search(ctx context.Context, query string) ([]model.Asset, error)
	Nearby(ctx context.Context, in NearbyInput) ([]model.Asset, error)
	AttachTag(ctx context.Context, assetID uint, name string) (*model.Tag, error)
	DownloadURL(ctx context.Context, id uint) (string, error)
	UploadURL(ctx context.Context, in UploadURLInput) (*UploadTarget, error)
}

type assetService struct {
	r          repo.AssetRepo
	tags       repo.TagRepo
	log        *zap.Logger
	blob       *blob.S3Deps
	mq         *amqp.Connection
	queue      string
	presignTTL func() time.Duration
}

func NewAssetService(
	r repo.AssetRepo,
	tags repo.TagRepo,
	log *zap.Logger,
	blob *blob.S3Deps,
	conn *amqp.Connection,
	queue string,
	presignTTL func() time.Duration,
) AssetService {
	return &assetService{
		r:          r,
		tags:       tags,
		log:        log,
		blob:       blob,
		mq:         conn,
		queue:      queue,
		presignTTL: presignTTL,
	}
}

type DimensionsInput struct {
	Width  int
	Height int
}

type CreateAssetInput struct {
	AssetType  model.AssetType
	FileName   string
	FilePath   string
	FileSize   int64
	Location   *model.GeoPoint
	Dimensions *DimensionsInput
	Tags       []string
	Metadata   map[string]interface{}
}

// UpdateAssetInput carries partial-update semantics: nil fields are left
// untouched; a present Tags list replaces the whole tag set.
type UpdateAssetInput struct {
	AssetType  *model.AssetType
	FileName   *string
	FilePath   *string
	FileSize   *int64
	Location   *model.GeoPoint
	Dimensions *DimensionsInput
	Tags       *[]string
	Metadata   map[string]interface{}
}

type NearbyInput struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type UploadURLInput struct {
	FileName    string
	ContentType string
}

type UploadTarget struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func validateLocation(p *model.GeoPoint) error {
	if p == nil {
		return nil
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return apperr.Validation("location.latitude", "must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return apperr.Validation("location.longitude", "must be between -180 and 180")
	}
	return nil
}

func validateTagNames(names []string) error {
	for _, n := range names {
		if n == "" {
			return apperr.Validation("tags", "must not contain empty names")
		}
	}
	return nil
}

func validateDimensions(d *DimensionsInput) error {
	if d == nil {
		return nil
	}
	if d.Width <= 0 {
		return apperr.Validation("dimensions.width", "must be positive")
	}
	if d.Height <= 0 {
		return apperr.Validation("dimensions.height", "must be positive")
	}
	return nil
}

func (s *assetService) Create(ctx context.Context, in CreateAssetInput) (*model.Asset, error) {
	if !in.AssetType.Valid() {
		return nil, apperr.Validation("asset_type", "must be image or video")
	}
	if in.FileName == "" {
		return nil, apperr.Validation("file_name", "must not be empty")
	}
	if in.FilePath == "" {
		return nil, apperr.Validation("file_path", "must not be empty")
	}
	if in.FileSize < 0 {
		return nil, apperr.Validation("file_size", "must not be negative")
	}
	if err := validateLocation(in.Location); err != nil {
		return nil, err
	}
	if err := validateDimensions(in.Dimensions); err != nil {
		return nil, err
	}
	if err := validateTagNames(in.Tags); err != nil {
		return nil, err
	}

	a := &model.Asset{
		AssetType: in.AssetType,
		FileName:  in.FileName,
		FilePath:  in.FilePath,
		FileSize:  in.FileSize,
		Location:  in.Location,
	}
	if in.Dimensions != nil {
		a.Dimensions = &model.AssetDimension{
			Width:  in.Dimensions.Width,
			Height: in.Dimensions.Height,
		}
	}
	if in.Metadata != nil {
		a.Metadata = &model.AssetMetadata{Content: datatypes.JSONMap(in.Metadata)}
	}

	if err := s.r.Create(ctx, a, in.Tags); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventAssetCreated, a, nil); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assetService) Get(ctx context.Context, id uint) (*model.Asset, error) {
	return s.r.Get(ctx, id)
}

func (s *assetService) List(ctx context.Context, offset, limit int) ([]model.Asset, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return s.r.List(ctx, offset, limit)
}

func (s *assetService) Update(ctx context.Context, id uint, in UpdateAssetInput) (*model.Asset, error) {
	if in.AssetType != nil && !in.AssetType.Valid() {
		return nil, apperr.Validation("asset_type", "must be image or video")
	}
	if in.FileName != nil && *in.FileName == "" {
		return nil, apperr.Validation("file_name", "must not be empty")
	}
	if in.FilePath != nil && *in.FilePath == "" {
		return nil, apperr.Validation("file_path", "must not be empty")
	}
	if in.FileSize != nil && *in.FileSize < 0 {
		return nil, apperr.Validation("file_size", "must not be negative")
	}
	if err := validateLocation(in.Location); err != nil {
		return nil, err
	}
	if err := validateDimensions(in.Dimensions); err != nil {
		return nil, err
	}
	if in.Tags != nil {
		if err := validateTagNames(*in.Tags); err != nil {
			return nil, err
		}
	}

	patch := repo.AssetPatch{
		AssetType: in.AssetType,
		FileName:  in.FileName,
		FilePath:  in.FilePath,
		FileSize:  in.FileSize,
		Location:  in.Location,
		Metadata:  in.Metadata,
		Tags:      in.Tags,
	}
	if in.Dimensions != nil {
		patch.Dimensions = &model.AssetDimension{
			Width:  in.Dimensions.Width,
			Height: in.Dimensions.Height,
		}
	}

	a, err := s.r.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventAssetUpdated, a, nil); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assetService) Delete(ctx context.Context, id uint) (*model.Asset, error) {
	a, err := s.r.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventAssetDeleted, a, nil); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assetService) Search(ctx context.Context, query string) ([]model.Asset, error) {
	if query == "" {
		return nil, apperr.Validation("query", "must not be empty")
	}
	return s.r.Search(ctx, query)
}

func (s *assetService) Nearby(ctx context.Context, in NearbyInput) ([]model.Asset, error) {
	center := model.GeoPoint{Latitude: in.Latitude, Longitude: in.Longitude}
	if err := validateLocation(&center); err != nil {
		return nil, err
	}
	if in.RadiusMeters <= 0 {
		return nil, apperr.Validation("radius", "must be positive")
	}
	return s.r.Nearby(ctx, in.Latitude, in.Longitude, in.RadiusMeters)
}

func (s *assetService) AttachTag(ctx context.Context, assetID uint, name string) (*model.Tag, error) {
	if name == "" {
		return nil, apperr.Validation("tag_name", "must not be empty")
	}
	t, err := s.tags.Attach(ctx, assetID, name)
	if err != nil {
		return nil, err
	}
	if err := s.publishTag(ctx, assetID, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *assetService) DownloadURL(ctx context.Context, id uint) (string, error) {
	if s.blob == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	a, err := s.r.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.blob.PresignGet(ctx, a.FilePath, s.presignTTL())
}

func (s *assetService) UploadURL(ctx context.Context, in UploadURLInput) (*UploadTarget, error) {
	if s.blob == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	if in.FileName == "" {
		return nil, apperr.Validation("file_name", "must not be empty")
	}

	key, err := keygen.GenerateKey("assets/")
	if err != nil {
		return nil, fmt.Errorf("generate object key: %w", err)
	}
	key += filepath.Ext(in.FileName)

	url, err := s.blob.PresignPut(ctx, key, in.ContentType, s.presignTTL())
	if err != nil {
		return nil, err
	}
	return &UploadTarget{Key: key, URL: url}, nil
}

type assetEvent struct {
	Event   string       `json:"event"`
	AssetID uint         `json:"asset_id"`
	Asset   *model.Asset `json:"asset,omitempty"`
	Tag     *model.Tag   `json:"tag,omitempty"`
}

func (s *assetService) publish(ctx context.Context, event string, a *model.Asset, t *model.Tag) error {
	if s.mq == nil {
		return nil
	}
	p, err := mq.NewPublisher(s.mq, s.queue, s.log)
	if err != nil {
		return fmt.Errorf("create asset event publisher: %w", err)
	}
	defer p.Close()

	if err := p.PublishJSON(ctx, assetEvent{Event: event, AssetID: a.ID, Asset: a, Tag: t}); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

func (s *assetService) publishTag(ctx context.Context, assetID uint, t *model.Tag) error {
	if s.mq == nil {
		return nil
	}
	p, err := mq.NewPublisher(s.mq, s.queue, s.log)
	if err != nil {
		return fmt.Errorf("create asset event publisher: %w", err)
	}
	defer p.Close()

	if err := p.PublishJSON(ctx, assetEvent{Event: eventAssetTagAttached, AssetID: assetID, Tag: t}); err != nil {
		return fmt.Errorf("publish %s: %w", eventAssetTagAttached, err)
	}
	return nil
}
