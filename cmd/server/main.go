package main

//	@title			Asset Catalog API
//	@version		1.0
//	@description	Catalog of digital media assets with geospatial and tag search.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				API bearer token

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/lumeo-io/asset-catalog/internal/bootstrap"
	"github.com/lumeo-io/asset-catalog/internal/config"
	"github.com/lumeo-io/asset-catalog/internal/modules/handler"
	"github.com/lumeo-io/asset-catalog/internal/router"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)

	// init gin
	gin.SetMode(cfg.App.Env)

	// build handlers
	assetHandler := do.MustInvoke[*handler.AssetHandler](inj)
	statsHandler := do.MustInvoke[*handler.StatsHandler](inj)

	engine := router.NewRouter(router.RouterDeps{
		Config:       cfg,
		Log:          log,
		AssetHandler: assetHandler,
		StatsHandler: statsHandler,
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	log.Sugar().Info("server exited")
}
