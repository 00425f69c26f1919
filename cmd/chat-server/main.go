package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wangxiaochuang/05-chat/config"
	"github.com/wangxiaochuang/05-chat/internal/blob"
	"github.com/wangxiaochuang/05-chat/internal/notify"
	"github.com/wangxiaochuang/05-chat/internal/pg"
	"github.com/wangxiaochuang/05-chat/internal/repository/postgres"
	"github.com/wangxiaochuang/05-chat/internal/security"
	"github.com/wangxiaochuang/05-chat/internal/service"
	httpx "github.com/wangxiaochuang/05-chat/internal/transport/http"
	"github.com/wangxiaochuang/05-chat/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:        logger.Env(cfg.Logging.Env),
		Service:    "chat-server",
		Version:    cfg.Logging.Version,
		InstanceID: uuid.NewString(),
		Backend:    logger.Backend(cfg.Logging.Backend),
		AddSource:  cfg.Logging.AddSource,
		Debug:      cfg.Logging.Debug,
	})
	slog.Info("starting chat-server",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, pg.Config{
		DSN:               cfg.Postgres.DSN,
		MaxConns:          cfg.Postgres.MaxConns,
		MinConns:          cfg.Postgres.MinConns,
		MaxConnLifetime:   cfg.Postgres.MaxConnLifetimeOr(30 * time.Minute),
		MaxConnIdleTime:   cfg.Postgres.MaxConnIdleTimeOr(5 * time.Minute),
		HealthCheckPeriod: cfg.Postgres.HealthCheckPeriodOr(time.Minute),
		ApplicationName:   "chat-server",
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- auth ---
	priv, err := security.LoadRSAPrivateKeyFromPEM(cfg.Auth.PrivateKeyPath)
	if err != nil {
		log.Fatalf("load private key: %v", err)
	}
	pubKey, err := security.LoadRSAPublicKeyFromPEM(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}
	jwtSigner := security.NewJWTSigner(priv, pubKey,
		cfg.Auth.Issuer, cfg.Auth.Audience,
		cfg.Auth.TokenTTLOr(24*time.Hour), 30*time.Second)

	// --- repos & storage ---
	userRepo := postgres.NewUserRepoFromPool(pool)
	wsRepo := postgres.NewWorkspaceRepoFromPool(pool)
	blobs := blob.NewStore(cfg.Storage.BaseDir)
	publisher := notify.NewPublisher()

	// --- services ---
	authSvc := service.NewAuthService(pool, userRepo, wsRepo, jwtSigner,
		security.BcryptConfig{Cost: cfg.Auth.BcryptCost}, nil)
	wsSvc := service.NewWorkspaceService(wsRepo, userRepo)
	chatSvc := service.NewChatService(pool, userRepo, publisher)
	msgSvc := service.NewMessageService(pool, blobs, publisher)

	// --- HTTP ---
	handler := httpx.NewHandler(authSvc, wsSvc, chatSvc, msgSvc, blobs)
	router := httpx.NewRouter(handler, authSvc)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ChatAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.ChatAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		slog.Error("http shutdown", "err", err)
	}
	slog.Info("chat-server stopped")
}
