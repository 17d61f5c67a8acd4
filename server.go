package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/AnTengye/legalintel/handler"
	"github.com/AnTengye/legalintel/middleware"
	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/metrics"
	"github.com/AnTengye/legalintel/pkg/pattern"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

// app holds the long-lived services behind the router.
type app struct {
	cfg     *config.Config
	users   *service.UserService
	engine  *service.Engine
	metrics *metrics.Metrics
}

// loadPatterns returns the configured pattern tables, or the built-in ones.
func loadPatterns(cfg *config.Config) (*pattern.Library, error) {
	if cfg.Patterns.File == "" {
		return pattern.Default(), nil
	}
	lib, err := pattern.LoadFile(cfg.Patterns.File)
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	slog.Info("pattern tables loaded", "file", cfg.Patterns.File)
	return lib, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	users := service.NewUserService(bcrypt.DefaultCost)
	if err := users.Seed(cfg.Users); err != nil {
		return nil, err
	}

	lib, err := loadPatterns(cfg)
	if err != nil {
		return nil, err
	}

	service.InitDocumentStore(&cfg.Store)

	blobs, err := service.NewBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init blob store: %w", err)
	}
	slog.Info("blob store ready", "backend", cfg.Storage.Backend)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace, true)
	}

	engine := service.NewEngine(service.GetDocumentStore(), blobs, lib,
		service.WithMetrics(m),
		service.WithMaxFileSize(cfg.MaxFileSize()),
	)
	return &app{cfg: cfg, users: users, engine: engine, metrics: m}, nil
}

func newRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger("/health", "/metrics"))
	router.Use(a.metrics.Middleware())
	router.Use(corsMiddleware())
	router.Use(cacheMiddleware())
	router.Use(middleware.RateLimit(&a.cfg.RateLimit))

	authHandler := handler.NewAuthHandler(a.users, &a.cfg.Auth)
	documentHandler := handler.NewDocumentHandler(a.engine, a.cfg.MaxFileSize(), service.DefaultIngestWorkers)
	queryHandler := handler.NewQueryHandler(a.engine)
	dashboardHandler := handler.NewDashboardHandler(a.engine)
	exportHandler := handler.NewExportHandler(a.engine)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"documents": len(a.engine.List()),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	if a.metrics != nil {
		router.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	}

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/export/health", exportHandler.Health)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&a.cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.PUT("/auth/me", authHandler.UpdateCurrentUser)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		admin := protected.Group("/auth/users")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		admin.GET("", authHandler.ListUsers)
		admin.PUT("/:email/active", authHandler.SetUserActive)
		admin.DELETE("/:email", authHandler.DeleteUser)

		protected.POST("/upload", documentHandler.Upload)
		protected.POST("/upload-folder", documentHandler.UploadFolder)
		protected.GET("/documents", documentHandler.List)
		protected.GET("/documents/:id/analysis", documentHandler.Analysis)
		protected.GET("/documents/:id/content", documentHandler.Download)
		protected.GET("/documents/:id/url", documentHandler.DownloadURL)
		protected.DELETE("/documents/:id", documentHandler.Delete)
		protected.POST("/documents/:id/regenerate-ai", documentHandler.Regenerate)

		protected.POST("/query", queryHandler.Query)
		protected.POST("/analyze-documents", queryHandler.AnalyzeDocuments)

		protected.GET("/dashboard", dashboardHandler.Dashboard)
		protected.POST("/ai/summary", dashboardHandler.Summary)

		protected.GET("/export/documents/csv", exportHandler.Documents)
		protected.POST("/export/query/csv", exportHandler.Query)
		protected.GET("/export/:format", exportHandler.Dashboard)
	}

	return router
}

func runServer(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(a),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// cacheMiddleware disables caching of API responses
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}
