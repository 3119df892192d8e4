// Package entrypoint wires the application together and owns its
// lifecycle: database, repositories, remote client, importer, task
// queue, scheduler, HTTP server, graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/brickstock/internal/config"
	"github.com/mrlokans/brickstock/internal/database"
	partsdb "github.com/mrlokans/brickstock/internal/database/parts"
	settingsdb "github.com/mrlokans/brickstock/internal/database/settings"
	http_controllers "github.com/mrlokans/brickstock/internal/http"
	"github.com/mrlokans/brickstock/internal/images"
	"github.com/mrlokans/brickstock/internal/importer"
	"github.com/mrlokans/brickstock/internal/maintenance"
	"github.com/mrlokans/brickstock/internal/rebrickable"
	"github.com/mrlokans/brickstock/internal/scheduler"
	"github.com/mrlokans/brickstock/internal/settingsstore"
	"github.com/mrlokans/brickstock/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// within the configured timeout, calling onShutdown first.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown requested, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the HTTP listener.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires everything together and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Brickstock v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	partsRepo := partsdb.NewRepository(db.DB)
	settingsRepo := settingsdb.NewRepository(db.DB)
	settingsStore := settingsstore.New(settingsRepo)

	if settingsStore.GetAPIToken() == "" {
		log.Printf("WARNING: Rebrickable API token is not set. Imports will fail until " +
			"'REBRICKABLE_TOKEN' is set or the token is saved via /api/settings.")
	}

	client := rebrickable.NewClient(settingsStore.GetAPIToken)
	enricher := images.NewEnricher(partsRepo)

	// Initialize task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
	} else {
		log.Fatalf("Task queue is required: imports and image enrichment run on it (TASKS_ENABLED)")
	}

	setImporter := importer.NewSetImporter(client, partsRepo, taskClient)

	taskClient.Register(
		tasks.NewImportSetQueue(setImporter),
		tasks.NewEnrichPartImageQueue(enricher),
	)

	var taskCtx context.Context
	taskCtx, taskCtxCancel = context.WithCancel(context.Background())
	go taskClient.Start(taskCtx)

	// Scheduled re-sync of imported sets
	syncScheduler := scheduler.NewSetSyncScheduler(partsRepo, taskClient, settingsStore)
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: Failed to start set sync scheduler: %v", err)
	}

	maintenanceService := maintenance.NewService(partsRepo)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Action: http_controllers.NewActionController(
			taskClient,
			maintenanceService,
			partsRepo,
			settingsStore,
			version,
		),
		Settings: http_controllers.NewSettingsController(settingsStore),
		Health:   http_controllers.NewHealthController(db, version),
	})

	Serve(router, cfg, func(ctx context.Context) {
		syncScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	})
}
