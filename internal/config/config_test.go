package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
http_addr: ":9090"
records_file: /var/lib/catalog/records.txt
database:
  dsn: "user:pw@tcp(db:3306)/catalog"
  conn_max_lifetime: 1m
redis:
  addr: "cache:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, "/var/lib/catalog/records.txt", cfg.RecordsFile)
	assert.Equal(t, "user:pw@tcp(db:3306)/catalog", cfg.Database.DSN)
	assert.Equal(t, time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 100, cfg.Redis.PoolSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: [unclosed"), 0600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MYSQL_DSN", "env-dsn")
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	t.Setenv("HTTP_ADDR", ":1")
	t.Setenv("GRPC_ADDR", ":2")
	t.Setenv("RECORDS_FILE", "env.txt")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, ":1", cfg.HTTPAddr)
	assert.Equal(t, ":2", cfg.GRPCAddr)
	assert.Equal(t, "env.txt", cfg.RecordsFile)
}
