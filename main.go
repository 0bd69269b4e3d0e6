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

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/config"
	"github.com/mispasmin-creator/Store-FMS-sub001/handler"
	"github.com/mispasmin-creator/Store-FMS-sub001/middleware"
	"github.com/mispasmin-creator/Store-FMS-sub001/pkg/logger"
	"github.com/mispasmin-creator/Store-FMS-sub001/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	attachmentSvc, err := service.NewAttachmentService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize attachment storage", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := attachmentSvc.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure attachment bucket", "error", err)
		os.Exit(1)
	}

	sheetClient := service.NewSheetClient(&cfg.Sheets)
	sheetStore := service.NewSheetStore(sheetClient)
	refresher := service.NewRefresher(sheetStore, time.Duration(cfg.Sheets.RefetchDelayMS)*time.Millisecond)

	// Warm the snapshots; individual sheet failures are logged and retried
	// by the first manual refresh.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		failures := sheetStore.RefreshAll(ctx)
		slog.Info("initial sheet load finished", "failed", len(failures))
	}()

	// Initialize handlers
	deps := &handler.Deps{
		Store:          sheetStore,
		Client:         sheetClient,
		Refresher:      refresher,
		UploadFolderID: cfg.Sheets.UploadFolderID,
	}
	authHandler := handler.NewAuthHandler(cfg)
	sheetHandler := handler.NewSheetHandler(deps)
	indentHandler := handler.NewIndentHandler(deps)
	rateHandler := handler.NewRateHandler(deps)
	poHandler := handler.NewPOHandler(deps)
	storeInHandler := handler.NewStoreInHandler(deps, attachmentSvc)
	issueHandler := handler.NewIssueHandler(deps)
	billHandler := handler.NewBillHandler(deps)
	dashboardHandler := handler.NewDashboardHandler(deps)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/sheets/:name", sheetHandler.Get)
		protected.POST("/sheets/:name/refresh", sheetHandler.Refresh)
		protected.POST("/refresh", sheetHandler.RefreshAll)

		protected.GET("/indents", indentHandler.List)
		protected.POST("/indents/:rowIndex/approve", indentHandler.Approve)

		protected.GET("/rates", rateHandler.List)
		protected.POST("/rates/:rowIndex/approve", rateHandler.Approve)

		protected.GET("/pos", poHandler.List)
		protected.POST("/pos/:rowIndex/update", poHandler.Update)
		protected.POST("/pos/:rowIndex/send", poHandler.Send)

		protected.GET("/store-in", storeInHandler.List)
		protected.POST("/store-in/:rowIndex/receive", storeInHandler.Receive)

		protected.GET("/issues", issueHandler.List)
		protected.POST("/issues/:rowIndex/issue", issueHandler.Issue)

		protected.GET("/bills", billHandler.List)
		protected.POST("/bills/:rowIndex/reconcile", billHandler.Reconcile)

		protected.GET("/dashboard", dashboardHandler.Summary)
		protected.GET("/export/:view", dashboardHandler.Export)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
