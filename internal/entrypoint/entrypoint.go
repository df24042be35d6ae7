package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/ai"
	"github.com/lectern-app/lectern/internal/audit"
	"github.com/lectern-app/lectern/internal/compiler"
	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/database/annotations"
	"github.com/lectern-app/lectern/internal/database/progress"
	http_controllers "github.com/lectern-app/lectern/internal/http"
	"github.com/lectern-app/lectern/internal/library"
	"github.com/lectern-app/lectern/internal/scheduler"
	"github.com/lectern-app/lectern/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lectern v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	annotationRepo := annotations.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)

	// Book store and library over the books directory
	store, err := library.NewStore(library.NewDiskLoader(cfg.Library.BooksDir), cfg.Library.BookCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize book store: %v", err)
	}
	lib := library.NewLibrary(cfg.Library.BooksDir, store)

	// AI analysis service over an OpenAI-compatible provider
	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	aiService := ai.NewService(aiClient)
	if !aiClient.IsConfigured() {
		log.Printf("WARNING: OPENAI_API_KEY is not set. AI analysis endpoints will report as unavailable.")
	}

	// Create auditor for saving incoming JSON requests
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	// Periodic audit retention cleanup
	auditCleanup := scheduler.NewAuditCleanupScheduler(auditor, cfg.Audit.RetentionDays, cfg.Audit.CleanupSchedule)
	if err := auditCleanup.Start(); err != nil {
		log.Printf("WARNING: Failed to start audit cleanup scheduler: %v", err)
	}

	// External EPUB compiler
	bookCompiler := compiler.NewCommandCompiler(cfg.Library.CompilerPath, cfg.Library.BooksDir, cfg.Tasks.TaskTimeout)

	// Initialize task queue if enabled
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

		// Register task queues
		taskClient.Register(
			tasks.NewCompileBookQueue(bookCompiler),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Library:       lib,
		Annotations:   annotationRepo,
		Progress:      progressRepo,
		Database:      db,
		Auditor:       auditor,
		Analyzer:      aiService,
		Compiler:      bookCompiler,
		TaskClient:    taskClient,
		UploadDir:     filepath.Join(filepath.Dir(cfg.Database.Path), "uploads"),
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		auditCleanup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
