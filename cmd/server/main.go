package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Smartsoil-Media/smartsoil-api/internal/config"
	"github.com/Smartsoil-Media/smartsoil-api/internal/database"
	"github.com/Smartsoil-Media/smartsoil-api/internal/handlers"
	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/mailer"
	"github.com/Smartsoil-Media/smartsoil-api/internal/middleware"
	"github.com/Smartsoil-Media/smartsoil-api/internal/repository"
	"github.com/Smartsoil-Media/smartsoil-api/internal/scheduler"
	"github.com/Smartsoil-Media/smartsoil-api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	migrateTimeout  = 2 * time.Minute
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Smartsoil API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Apply pending schema migrations
	migrateCtx, cancelMigrate := context.WithTimeout(ctx, migrateTimeout)
	if err := db.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatal("Failed to apply database migrations", err, nil)
	}
	cancelMigrate()

	// Initialize repository layer
	paddockRepo := repository.NewPaddockRepository(db)
	mobRepo := repository.NewMobRepository(db)
	grazingEventRepo := repository.NewGrazingEventRepository(db)
	mobEventRepo := repository.NewMobEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize service layer
	mail := mailer.New(cfg.Mailer)
	paddockService := services.NewPaddockService(paddockRepo, mobRepo, grazingEventRepo, log)
	mobService := services.NewMobService(mobRepo, paddockRepo, grazingEventRepo, mobEventRepo, log)
	taskService := services.NewTaskService(taskRepo, log)
	invitationService := services.NewInvitationService(invitationRepo, mail, log)

	// Initialize handlers
	paddockHandler := handlers.NewPaddockHandler(paddockService)
	mobHandler := handlers.NewMobHandler(mobService)
	taskHandler := handlers.NewTaskHandler(taskService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Register API v1 routes
	v1 := router.Group("/api/v1")

	// Invitation acceptance carries its own token, so it sits outside the
	// owner-scoped group.
	v1.POST("/invitations/accept", invitationHandler.Accept)

	scoped := v1.Group("", middleware.Owner())
	{
		paddocks := scoped.Group("/paddocks")
		{
			paddocks.GET("", paddockHandler.List)
			paddocks.POST("", paddockHandler.Create)
			paddocks.GET("/:id", paddockHandler.Get)
			paddocks.PUT("/:id", paddockHandler.Update)
			paddocks.DELETE("/:id", paddockHandler.Delete)
			paddocks.GET("/:id/status", paddockHandler.Status)
		}

		mobs := scoped.Group("/mobs")
		{
			mobs.GET("", mobHandler.List)
			mobs.POST("", mobHandler.Create)
			mobs.GET("/:id", mobHandler.Get)
			mobs.PUT("/:id", mobHandler.Update)
			mobs.DELETE("/:id", mobHandler.Delete)
			mobs.POST("/:id/archive", mobHandler.Archive)
			mobs.POST("/:id/unarchive", mobHandler.Unarchive)
			mobs.POST("/:id/move", mobHandler.Move)
			mobs.GET("/:id/events", mobHandler.ListEvents)
			mobs.POST("/:id/events", mobHandler.RecordEvent)
			mobs.GET("/:id/analytics", mobHandler.Analytics)
		}

		tasks := scoped.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		invitations := scoped.Group("/invitations")
		{
			invitations.GET("", invitationHandler.List)
			invitations.POST("", invitationHandler.Invite)
			invitations.POST("/:id/revoke", invitationHandler.Revoke)
		}
	}

	// Start the nightly size reconciler
	reconciler := scheduler.New(cfg.Scheduler.ReconcileCron, mobRepo, mobEventRepo, log)
	if err := reconciler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", err, map[string]interface{}{
			"reconcile_cron": cfg.Scheduler.ReconcileCron,
		})
	}
	defer reconciler.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
