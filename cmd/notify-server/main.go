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
	"github.com/wangxiaochuang/05-chat/internal/notify"
	"github.com/wangxiaochuang/05-chat/internal/pg"
	"github.com/wangxiaochuang/05-chat/internal/repository/postgres"
	"github.com/wangxiaochuang/05-chat/internal/security"
	"github.com/wangxiaochuang/05-chat/internal/transport/ws"
	"github.com/wangxiaochuang/05-chat/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// verifier поверх публичного ключа: notify-server токены только проверяет
type tokenVerifier struct {
	jwt *security.JWTSigner
}

func (v *tokenVerifier) Verify(token string) (*security.Identity, error) {
	return v.jwt.ParseAndValidate(token)
}

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:        logger.Env(cfg.Logging.Env),
		Service:    "notify-server",
		Version:    cfg.Logging.Version,
		InstanceID: uuid.NewString(),
		Backend:    logger.Backend(cfg.Logging.Backend),
		AddSource:  cfg.Logging.AddSource,
		Debug:      cfg.Logging.Debug,
	})
	slog.Info("starting notify-server",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pg.NewPool(ctx, pg.Config{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        4, // fanout-у нужен только LISTEN + health
		ApplicationName: "notify-server",
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- auth ---
	pub, err := security.LoadRSAPublicKeyFromPEM(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}
	jwt := security.NewJWTSigner(nil, pub,
		cfg.Auth.Issuer, cfg.Auth.Audience,
		cfg.Auth.TokenTTLOr(24*time.Hour), 30*time.Second)

	// --- hub & ws ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, &tokenVerifier{jwt: jwt})

	// --- listener ---
	listener := notify.NewListener(pool, postgres.NewChatRepoFromPool(pool), hub.Dispatch)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Get("/ws", wsServer.HandleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{
		Addr:        cfg.HTTP.NotifyAddr,
		Handler:     r,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.NotifyAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// потеря LISTEN-соединения фатальна: тихий fanout хуже упавшего
	go func() {
		if err := listener.Run(ctx); err != nil {
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
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		slog.Error("http shutdown", "err", err)
	}
	slog.Info("notify-server stopped")
}
