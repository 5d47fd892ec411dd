package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"volunteer-match-server/config"
	"volunteer-match-server/database"
	"volunteer-match-server/jobs"
	"volunteer-match-server/logging"
	"volunteer-match-server/middleware"
	"volunteer-match-server/routes"
	"volunteer-match-server/storage"
	ws "volunteer-match-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.Load()
	cfg := config.Get()

	if err := database.Initialize(cfg.Database.URL); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := routes.Options{}

	archiver, err := storage.NewS3Archiver(ctx, cfg.Reports)
	if err != nil {
		logging.Warn("report archiving disabled", map[string]interface{}{"error": err.Error()})
	} else {
		opts.Archiver = archiver
	}

	if cfg.Cloudinary.Enabled() {
		uploader, err := storage.NewCloudinaryUploader(cfg.Cloudinary)
		if err != nil {
			logging.Warn("photo uploads disabled", map[string]interface{}{"error": err.Error()})
		} else {
			opts.Uploader = uploader
		}
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	opts.Hub = hub

	handler := routes.NewHandler(database.GetDB(), cfg, opts)

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(logging.RequestID())
	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))
	router.Use(middleware.InputValidationMiddleware())

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst)
	routes.RegisterRoutes(router, handler, limiter)

	housekeeping := jobs.NewHousekeepingJob(handler.Auth, handler.Activity, limiter,
		cfg.Security.ActivityLogRetention, time.Hour)
	housekeeping.Start()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("server starting", map[string]interface{}{"port": cfg.Server.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	logging.Info("shutting down", nil)

	housekeeping.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	if _, err := handler.Auth.CleanupExpiredTokens(shutdownCtx); err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
	}
}
