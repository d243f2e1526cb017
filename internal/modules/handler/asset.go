package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
	"github.com/lumeo-io/asset-catalog/internal/modules/serializer"
	"github.com/lumeo-io/asset-catalog/internal/modules/service"
	"github.com/lumeo-io/asset-catalog/internal/pkg/apperr"
)

type AssetHandler struct {
	svc service.AssetService
}

func NewAssetHandler(s service.AssetService) *AssetHandler {
	return &AssetHandler{svc: s}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("asset not found", err))
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, serializer.ConflictErr("", err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

func assetIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("asset_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid asset id", err))
		return 0, false
	}
	return uint(id), true
}

type LocationReq struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

type DimensionsReq struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

type CreateAssetReq struct {
	AssetType  string                 `json:"asset_type" binding:"required,oneof=image video"`
	FileName   string                 `json:"file_name" binding:"required"`
	FilePath   string                 `json:"file_path" binding:"required"`
	FileSize   int64                  `json:"file_size" binding:"min=0"`
	Location   *LocationReq           `json:"location"`
	Dimensions *DimensionsReq         `json:"dimensions"`
	Tags       []string               `json:"tags"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// CreateAsset godoc
//
//	@Summary		Create asset
//	@Description	Register a new asset together with its optional dimensions, metadata and tags
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateAssetReq	true	"CreateAsset payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=serializer.Asset}
//	@Router			/assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	req := CreateAssetReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.CreateAssetInput{
		AssetType: model.AssetType(req.AssetType),
		FileName:  req.FileName,
		FilePath:  req.FilePath,
		FileSize:  req.FileSize,
		Tags:      req.Tags,
		Metadata:  req.Metadata,
	}
	if req.Location != nil {
		in.Location = &model.GeoPoint{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	}
	if req.Dimensions != nil {
		in.Dimensions = &service.DimensionsInput{Width: req.Dimensions.Width, Height: req.Dimensions.Height}
	}

	a, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: serializer.BuildAsset(a)})
}

// GetAsset godoc
//
//	@Summary		Get asset
//	@Description	Get one asset by its ID, with dimensions, metadata and tags
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			asset_id	path	integer	true	"Asset ID"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=serializer.Asset}
//	@Router			/assets/{asset_id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAsset(a)})
}

type ListAssetsReq struct {
	Offset int `form:"offset,default=0" json:"offset" binding:"min=0"`
	Limit  int `form:"limit,default=100" json:"limit" binding:"min=1,max=500"`
}

// ListAssets godoc
//
//	@Summary		List assets
//	@Description	List assets ordered by id ascending
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			offset	query	integer	false	"Rows to skip, default 0"
//	@Param			limit	query	integer	false	"Max rows to return, default 100. Max 500."
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]serializer.Asset}
//	@Router			/assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	req := ListAssetsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	items, err := h.svc.List(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAssets(items)})
}

type UpdateAssetReq struct {
	AssetType  *string                `json:"asset_type" binding:"omitempty,oneof=image video"`
	FileName   *string                `json:"file_name"`
	FilePath   *string                `json:"file_path"`
	FileSize   *int64                 `json:"file_size" binding:"omitempty,min=0"`
	Location   *LocationReq           `json:"location"`
	Dimensions *DimensionsReq         `json:"dimensions"`
	Tags       *[]string              `json:"tags"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// UpdateAsset godoc
//
//	@Summary		Update asset
//	@Description	Apply a partial update; absent fields are left untouched, a present tags list replaces the tag set
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			asset_id	path	integer					true	"Asset ID"
//	@Param			payload		body	handler.UpdateAssetReq	true	"UpdateAsset payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=serializer.Asset}
//	@Router			/assets/{asset_id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	req := UpdateAssetReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateAssetInput{
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	}
	if req.AssetType != nil {
		t := model.AssetType(*req.AssetType)
		in.AssetType = &t
	}
	if req.Location != nil {
		in.Location = &model.GeoPoint{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	}
	if req.Dimensions != nil {
		in.Dimensions = &service.DimensionsInput{Width: req.Dimensions.Width, Height: req.Dimensions.Height}
	}

	a, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAsset(a)})
}

// DeleteAsset godoc
//
//	@Summary		Delete asset
//	@Description	Delete an asset; its dimensions, metadata and tag associations go with it, tags survive
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			asset_id	path	integer	true	"Asset ID"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=serializer.Asset}
//	@Router			/assets/{asset_id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	a, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAsset(a)})
}

type SearchAssetsReq struct {
	Query string `form:"query" json:"query" binding:"required"`
}

// SearchAssets godoc
//
//	@Summary		Search assets
//	@Description	Case-insensitive substring match against file name, asset type and tag names
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			query	query	string	true	"Search text"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]serializer.Asset}
//	@Router			/assets/search [get]
func (h *AssetHandler) SearchAssets(c *gin.Context) {
	req := SearchAssetsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	items, err := h.svc.Search(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAssets(items)})
}

type NearbyAssetsReq struct {
	Latitude  *float64 `form:"latitude" json:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" json:"longitude" binding:"required"`
	Radius    float64  `form:"radius,default=1000" json:"radius"`
}

// NearbyAssets godoc
//
//	@Summary		Nearby assets
//	@Description	Assets within radius meters of the center, nearest first
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			latitude	query	number	true	"Latitude of the center point"
//	@Param			longitude	query	number	true	"Longitude of the center point"
//	@Param			radius		query	number	false	"Search radius in meters, default 1000"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]serializer.Asset}
//	@Router			/assets/nearby [get]
func (h *AssetHandler) NearbyAssets(c *gin.Context) {
	req := NearbyAssetsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	items, err := h.svc.Nearby(c.Request.Context(), service.NearbyInput{
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		RadiusMeters: req.Radius,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildAssets(items)})
}

// AttachTag godoc
//
//	@Summary		Attach tag
//	@Description	Attach a tag to an asset, creating the tag on first use; re-attaching is a no-op
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			asset_id	path	integer	true	"Asset ID"
//	@Param			tag_name	path	string	true	"Tag name"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Tag}
//	@Router			/assets/{asset_id}/tags/{tag_name} [post]
func (h *AssetHandler) AttachTag(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	t, err := h.svc.AttachTag(c.Request.Context(), id, c.Param("tag_name"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// DownloadAsset godoc
//
//	@Summary		Download URL
//	@Description	Presigned GET URL for the asset's stored object
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			asset_id	path	integer	true	"Asset ID"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=string}
//	@Router			/assets/{asset_id}/download [get]
func (h *AssetHandler) DownloadAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: url})
}

type UploadURLReq struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
}

// CreateUploadURL godoc
//
//	@Summary		Upload URL
//	@Description	Presigned PUT URL plus the object key to register afterwards as file_path
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.UploadURLReq	true	"UploadURL payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.UploadTarget}
//	@Router			/assets/upload-url [post]
func (h *AssetHandler) CreateUploadURL(c *gin.Context) {
	req := UploadURLReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	target, err := h.svc.UploadURL(c.Request.Context(), service.UploadURLInput{
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: target})
}
