// Package main is the entry point for the visual feedback service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/cache"
	"github.com/visual-feedback/backend/internal/config"
	"github.com/visual-feedback/backend/internal/handler"
	"github.com/visual-feedback/backend/internal/repository"
	"github.com/visual-feedback/backend/internal/store"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.New,
			newLogger,
			newGinEngine,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

// newLogger creates a new zap logger based on the environment.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newGinEngine creates and configures a new Gin engine.
func newGinEngine(cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	engine.Use(cors.New(corsConfig))

	return engine
}

// startServer wires the store, repository, cache and handlers, then starts
// the HTTP server under the fx lifecycle.
func startServer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger, engine *gin.Engine) error {
	logger.Info("Starting service",
		zap.String("port", cfg.ServerPort),
		zap.String("dataFile", cfg.DataFile),
		zap.String("uploadsDir", cfg.UploadsDir),
	)

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		logger.Fatal("Failed to create uploads directory", zap.Error(err))
		return err
	}

	fileStore, err := store.NewFileStore(cfg.DataFile, logger)
	if err != nil {
		logger.Fatal("Failed to open store document", zap.Error(err))
		return err
	}

	cacheClient, err := cache.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
		return err
	}

	repo := repository.New(fileStore, logger)
	h := handler.NewHandler(repo, cacheClient, cfg, logger)

	api := engine.Group("/api")
	h.RegisterRoutes(api)

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "visual-feedback",
		})
	})

	// Uploaded binaries
	engine.Static("/uploads", cfg.UploadsDir)

	// Client shell: both routes serve the same page and the client script
	// picks the view from the URL.
	shell := func(c *gin.Context) {
		c.File(filepath.Join(cfg.PublicDir, "index.html"))
	}
	engine.GET("/", shell)
	engine.GET("/feedback/:imageId", shell)
	engine.StaticFile("/script.js", filepath.Join(cfg.PublicDir, "script.js"))
	engine.StaticFile("/style.css", filepath.Join(cfg.PublicDir, "style.css"))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Server starting", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Server shutting down")

			if cacheClient != nil {
				_ = cacheClient.Close()
			}

			return server.Shutdown(ctx)
		},
	})

	return nil
}
