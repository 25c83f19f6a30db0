package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/catalog"
	"github.com/mlobanov/bookshelf/internal/config"
	"github.com/mlobanov/bookshelf/internal/database"
	"github.com/mlobanov/bookshelf/internal/docstore"
	http_controllers "github.com/mlobanov/bookshelf/internal/http"
	"github.com/mlobanov/bookshelf/internal/library"
	"github.com/mlobanov/bookshelf/internal/profile"
	"github.com/mlobanov/bookshelf/internal/scheduler"
	"github.com/mlobanov/bookshelf/internal/tasks"
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop task workers and flush library sessions before closing the
	// listener so queued writes make it to the store.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store, err := docstore.NewSQLiteStore(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	adapter := library.NewAdapter(store)
	sessions := library.NewManager(adapter)

	publicReader := library.NewPublicReader(adapter)
	profiles := profile.NewService(store)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// Task queue for background cover enrichment
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, cfg.Tasks)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewEnrichCoverQueue(adapter, catalogClient, sessions),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	reaper := scheduler.NewSessionReaper(sessions, cfg.Sessions.MaxIdle, cfg.Sessions.ReapSchedule)
	if err := reaper.Start(); err != nil {
		log.Fatalf("Failed to start session reaper: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Sessions:       sessions,
		PublicReader:   publicReader,
		Profiles:       profiles,
		Catalog:        catalogClient,
		AuthService:    authService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TaskClient:     taskClient,
		Database:       db.DB,
		Version:        version,
	}
	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		reaper.Stop()

		if taskClient != nil {
			taskClient.Stop(ctx)
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
		}

		// Flushes every open persist queue.
		sessions.CloseAll()
	})
}
