package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"call-assistant/internal/auth"
	"call-assistant/internal/callstore"
	"call-assistant/internal/config"
	"call-assistant/internal/conversation"
	"call-assistant/internal/dashboard"
	"call-assistant/internal/notify"
	"call-assistant/internal/telephony"
	"call-assistant/pkg/logger"
	"call-assistant/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional env-file for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	var journal callstore.Journal
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		journal = callstore.NewPostgresJournal(db)
	default:
		journal = callstore.NewFileJournal(filepath.Join(cfg.Store.DataDir, "call-logs.json"))
	}

	var registry callstore.Registry
	if cfg.Registry.Backend == config.RegistryBackendRedis {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		registry = callstore.NewRedisRegistry(rdb, callstore.DefaultStaleAfter)
	} else {
		registry = callstore.NewMemoryRegistry()
	}

	store := callstore.New(journal, registry)
	go store.Run(logger.With(rootCtx, log))

	var dispatcher notify.Dispatcher = notify.LogDispatcher{}
	if cfg.Notify.WebhookURL != "" {
		dispatcher = notify.NewWebhookDispatcher(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	}

	orchestrator := conversation.New(store, dispatcher)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		Auth:      authManager,
		Voice:     telephony.NewHandler(orchestrator),
		Dashboard: dashboard.Handlers{Service: dashboard.NewService(store)},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env,
			"store_backend", string(cfg.Store.Backend),
			"registry_backend", string(cfg.Registry.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
