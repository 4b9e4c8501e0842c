// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdmarc/leadpulse-go/internal/application/container"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/email"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/messaging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/snapshot"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/security"
	"github.com/jdmarc/leadpulse-go/internal/presentation/http/server"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until
// shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("LeadPulse starting...")

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Database connection for snapshot persistence
	logger.Startup().Info("Opening snapshot database...")
	db, err := database.Open(logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	snapshotStore, err := snapshot.NewSQLStore(db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	logger.Startup().Info("Snapshot store ready", "driver", config.DatabaseDriver)

	// Step 3: Cache system
	logger.Startup().Info("Initializing cache system...")
	cacheManager := manager.NewManager(logger)

	// Step 4: Notification service
	notifier, err := email.NewService()
	if err != nil {
		logger.Startup().Info("Email notifications disabled, using log fallback", "reason", err.Error())
		notifier = email.NewLogService(logger)
	} else {
		logger.Startup().Info("Email notifications enabled", "to", config.NotificationEmailTo)
	}

	// Step 5: Dashboard broadcaster
	broadcaster := messaging.NewAlertBroadcaster(logger)
	defer broadcaster.Close()

	// Step 6: Auth secret. A generated secret means tokens do not survive
	// restarts; fine for a single-node deployment.
	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = security.GenerateSecureKey(32)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		logger.Startup().Warn("JWT_SECRET not set, generated an ephemeral secret")
	}

	// Step 7: Dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(cacheManager, snapshotStore, notifier, broadcaster, jwtSecret, logger)
	logger.Startup().Info("Singleton application services initialized via container")

	// Step 8: Rehydrate the lead registry from the last snapshot
	logger.Startup().Info("Restoring lead registry snapshot...")
	if err := appContainer.PersistenceService.LoadData(); err != nil {
		logger.Startup().Warn("Snapshot restore failed, starting fresh", "error", err.Error())
	}
	appContainer.RegistryService.RecomputeMetrics()

	// Step 9: Background snapshot and session sweep worker
	logger.Startup().Info("Starting background snapshot worker...",
		"snapshotInterval", config.SnapshotInterval,
		"sweepInterval", config.SessionSweepInterval)
	worker := snapshot.NewWorker(appContainer.PersistenceService, cacheManager, config.SnapshotInterval, config.SessionSweepInterval, logger)
	go worker.Start(ctx)

	// Step 10: HTTP server
	logger.Startup().Info("Starting HTTP server...")
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"leads", cacheManager.Leads().Count(),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Final snapshot so nothing recorded since the last tick is lost.
	logger.Shutdown().Info("Writing final registry snapshot...")
	if err := appContainer.PersistenceService.SaveData(); err != nil {
		logger.Shutdown().Error("Final snapshot failed", "error", err.Error())
	} else {
		logger.Shutdown().Info("Final registry snapshot written")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
