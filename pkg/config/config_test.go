package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 25*time.Millisecond, cfg.Retry.BaseDelay)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ALERT_TO", "jefe@bodega.co, compras@bodega.co ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"jefe@bodega.co", "compras@bodega.co"}, cfg.Alerts.To)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/ledger?sslmode=disable", c.ConnectionString())
}
