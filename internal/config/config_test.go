package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BISTRO_DATABASE_DSN", "postgres://localhost/bistro")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, SequencePostgres, cfg.Sequence.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Idempotency.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
  shutdown_timeout: 3s
database:
  dsn: postgres://file/bistro
  max_conns: 4
  min_conns: 1
sequence:
  backend: redis
redis:
  addr: cache:6379
logging:
  level: debug
`)
	t.Setenv("BISTRO_DATABASE_DSN", "postgres://env/bistro")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://env/bistro", cfg.Database.DSN)
	assert.Equal(t, SequenceRedis, cfg.Sequence.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)

	pc := cfg.Database.Pool()
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, "bistro", pc.ApplicationName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing dsn", "server:\n  address: \":8080\"\n"},
		{"unknown backend", "database:\n  dsn: x\nsequence:\n  backend: etcd\n"},
		{"unknown level", "database:\n  dsn: x\nlogging:\n  level: loud\n"},
		{"min above max", "database:\n  dsn: x\n  max_conns: 2\n  min_conns: 5\n"},
		{"redis without addr", "database:\n  dsn: x\nsequence:\n  backend: redis\nredis:\n  addr: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
