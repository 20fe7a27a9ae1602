package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("ENV", "")
	t.Setenv("DAYOFF_SESSION_TTL", "")
	t.Setenv("NOTIFY_RETRIES", "")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StorageJSON, cfg.StorageDriver)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 15*time.Minute, cfg.DayOffSessionTTL)
	assert.Equal(t, uint64(3), cfg.NotifyRetries)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://clinic@localhost/clinic")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DAYOFF_SESSION_TTL", "5m")
	t.Setenv("NOTIFY_RETRIES", "1")
	t.Setenv("TIMEZONE", "Europe/Moscow")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://clinic@localhost/clinic", cfg.DBDSN)
	assert.Equal(t, 5*time.Minute, cfg.DayOffSessionTTL)
	assert.Equal(t, uint64(1), cfg.NotifyRetries)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoadValidation(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TIMEZONE", "UTC")

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")

	t.Setenv("STORAGE_DRIVER", "json")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "timezone")
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
