package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumeo-io/asset-catalog/internal/modules/serializer"
	"github.com/lumeo-io/asset-catalog/internal/modules/service"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(s service.StatsService) *StatsHandler {
	return &StatsHandler{svc: s}
}

// GetTypeCounts godoc
//
//	@Summary		Live type counts
//	@Description	Per-type asset counts computed from current rows, bypassing the cache
//	@Tags			stats
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=map[string]int64}
//	@Router			/assets/counts [get]
func (h *StatsHandler) GetTypeCounts(c *gin.Context) {
	counts, err := h.svc.CountsByType(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: counts})
}

// RefreshTypeCountCache godoc
//
//	@Summary		Refresh count cache
//	@Description	Recompute the count-by-type summary and replace the cached copy atomically
//	@Tags			stats
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.TypeCountSummary}
//	@Router			/assets/cache/refresh [post]
func (h *StatsHandler) RefreshTypeCountCache(c *gin.Context) {
	summary, err := h.svc.RefreshCache(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: summary})
}

// GetTypeCountCache godoc
//
//	@Summary		Cached type counts
//	@Description	The precomputed summary; stale until the next explicit refresh
//	@Tags			stats
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.TypeCountSummary}
//	@Router			/assets/cache [get]
func (h *StatsHandler) GetTypeCountCache(c *gin.Context) {
	summary, err := h.svc.CachedCounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: summary})
}
