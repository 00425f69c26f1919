package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfigDefaults(t *testing.T) {
	writeConfig(t, `
postgres:
  dsn: postgres://localhost:5432/chat
auth:
  publicKeyPath: /etc/chat/public.pem
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":6688", cfg.HTTP.ChatAddr)
	require.Equal(t, ":6687", cfg.HTTP.NotifyAddr)
	require.Equal(t, "chat-server", cfg.Auth.Issuer)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTLOr(time.Hour))
	require.Equal(t, "dev", cfg.Logging.Env)
	require.Equal(t, "std", cfg.Logging.Backend)
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	writeConfig(t, `
auth:
  publicKeyPath: /etc/chat/public.pem
`)

	_, err := LoadConfig()
	require.ErrorContains(t, err, "postgres.dsn")
}

func TestDurationFallback(t *testing.T) {
	p := Postgres{MaxConnLifetime: "garbage"}
	require.Equal(t, 30*time.Minute, p.MaxConnLifetimeOr(30*time.Minute))

	p.MaxConnLifetime = "10m"
	require.Equal(t, 10*time.Minute, p.MaxConnLifetimeOr(30*time.Minute))
}
