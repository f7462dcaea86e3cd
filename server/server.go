package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LabelCMS/cache"
	"LabelCMS/config"
	"LabelCMS/core/oauth"
	"LabelCMS/core/session"
	"LabelCMS/db"
	"LabelCMS/logger"
	"LabelCMS/repository"
	"LabelCMS/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewRouter mounts the API, the disk upload directory and the web app.
func NewRouter(cfg *config.Config, h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger, corsMiddleware(cfg.CORSAllowedOrigins), h.sessionMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/releases", h.ReleasesHandler)
	api.HandleFunc("/tracks", h.TracksHandler)
	api.HandleFunc("/news", h.NewsHandler)
	api.HandleFunc("/upload", h.UploadHandler)
	api.HandleFunc("/oauth/login", h.OAuthLoginHandler).Methods(http.MethodGet)
	api.HandleFunc("/oauth/callback", h.OAuthCallbackHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/me", h.MeHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/logout", h.LogoutHandler).Methods(http.MethodPost)
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methodNotAllowed(w)
	})
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondFail(w, http.StatusNotFound, "Endpoint not found")
	})

	if cfg.StorageBackend == "disk" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}
	if cfg.WebAppDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.WebAppDir)))
	}
	return router
}

// Start builds the dependencies from cfg and serves until SIGINT/SIGTERM.
func Start(cfg *config.Config) error {
	ctx := context.Background()

	gdb, err := db.Connect(cfg)
	if err != nil {
		// Reads serve empty results and writes fail until restart.
		logger.Error("Database unavailable, serving degraded", logger.ErrorField(err))
	} else {
		defer db.Close(gdb)
		if err := db.AutoMigrate(gdb); err != nil {
			logger.Error("Schema migration failed", logger.ErrorField(err))
		}
	}

	var (
		states  cache.StateStore
		revoker session.Revoker
	)
	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, keeping login state in memory", logger.ErrorField(err))
		mem := cache.NewMemoryStore()
		states, revoker = mem, mem
	} else {
		defer rdb.Close()
		states = cache.NewRedisStateStore(rdb)
		revoker = cache.NewRedisRevocationStore(rdb)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}

	deps := Dependencies{
		Releases: repository.NewReleaseRepository(gdb),
		Tracks:   repository.NewTrackRepository(gdb),
		News:     repository.NewNewsRepository(gdb),
		Users:    repository.NewUserRepository(gdb, cfg.OwnerOpenID),
		Sessions: session.NewManager(secret, cfg.SessionTTL, revoker),
		States:   states,
		Store:    store,
	}
	if cfg.OAuthEnabled() {
		deps.OAuth = oauth.NewClient(cfg)
	} else {
		logger.Warn("OAuth not configured, admin login disabled")
	}

	handler := NewAPIHandler(cfg, deps)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      NewRouter(cfg, handler),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return serve(srv, gdb, rdb)
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "minio":
		store, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init minio store: %w", err)
		}
		logger.Info("Uploads go to MinIO", logger.String("bucket", store.Bucket()))
		return store, nil
	default:
		store, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
		if err != nil {
			return nil, fmt.Errorf("init disk store: %w", err)
		}
		logger.Info("Uploads go to disk", logger.String("dir", cfg.UploadDir))
		return store, nil
	}
}

func serve(srv *http.Server, gdb *gorm.DB, rdb *redis.Client) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			logger.String("addr", srv.Addr),
			logger.Bool("database", gdb != nil),
			logger.Bool("redis", rdb != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-stop:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
