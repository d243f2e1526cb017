package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumeo-io/asset-catalog/internal/config"
	"github.com/lumeo-io/asset-catalog/internal/middleware"
	"github.com/lumeo-io/asset-catalog/internal/modules/handler"
	"github.com/lumeo-io/asset-catalog/internal/modules/serializer"
)

type RouterDeps struct {
	Config       *config.Config
	Log          *zap.Logger
	AssetHandler *handler.AssetHandler
	StatsHandler *handler.StatsHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.BearerAuth(d.Config))

		// ping endpoint
		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		assets := v1.Group("/assets")
		{
			assets.POST("", d.AssetHandler.CreateAsset)
			assets.GET("", d.AssetHandler.ListAssets)

			assets.GET("/search", d.AssetHandler.SearchAssets)
			assets.GET("/nearby", d.AssetHandler.NearbyAssets)
			assets.GET("/counts", d.StatsHandler.GetTypeCounts)

			assets.GET("/cache", d.StatsHandler.GetTypeCountCache)
			assets.POST("/cache/refresh", d.StatsHandler.RefreshTypeCountCache)

			assets.POST("/upload-url", d.AssetHandler.CreateUploadURL)

			assets.GET("/:asset_id", d.AssetHandler.GetAsset)
			assets.PUT("/:asset_id", d.AssetHandler.UpdateAsset)
			assets.DELETE("/:asset_id", d.AssetHandler.DeleteAsset)

			assets.POST("/:asset_id/tags/:tag_name", d.AssetHandler.AttachTag)
			assets.GET("/:asset_id/download", d.AssetHandler.DownloadAsset)
		}
	}
	return r
}
