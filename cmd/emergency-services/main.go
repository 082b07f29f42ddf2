package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-emergency-services/internal/api"
	"github.com/mr1hm/go-emergency-services/internal/broadcast"
	"github.com/mr1hm/go-emergency-services/internal/config"
	"github.com/mr1hm/go-emergency-services/internal/emergency"
	"github.com/mr1hm/go-emergency-services/internal/geocode"
	"github.com/mr1hm/go-emergency-services/internal/logging"
	"github.com/mr1hm/go-emergency-services/internal/overpass"
	"github.com/mr1hm/go-emergency-services/internal/refresh"
	"github.com/mr1hm/go-emergency-services/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolution pipeline
	nominatim := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent, cfg.Search.HTTPTimeout)
	poi := overpass.NewClient(cfg.Overpass.URL, cfg.Overpass.UserAgent, cfg.Search.HTTPTimeout)
	fetcher := emergency.NewFetcher(poi, nominatim)
	resolver := emergency.NewResolver(nominatim, fetcher, cfg.Search.RadiusKm)

	// Broadcaster for streaming resolution updates
	broadcaster := broadcast.NewBroadcaster()

	// Background refresh for watched coordinates
	var mgr *refresh.Manager
	if cfg.Refresh.Enabled {
		mgr = refresh.NewManager(cfg, resolver, db, broadcaster)
		mgr.Start(ctx)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(resolver, db, db, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if mgr != nil {
		mgr.Stop()
	}
	broadcaster.Close() // Close all streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
