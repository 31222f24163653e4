package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var keys = []string{
	"ADDR", "STORE", "DATABASE_URL", "SQLITE_PATH", "SYNC_INTERVAL",
	"HEALTH_API_URL", "HEALTH_CLIENT_ID", "HEALTH_CLIENT_SECRET", "HEALTH_TOKEN_URL",
	"OIDC_ISSUER", "OIDC_CLIENT_ID", "API_KEY_HASH", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(c.Addr, ":8080"))
	assert.Check(t, is.Equal(c.Store, StoreMemory))
	assert.Check(t, is.Equal(c.SyncInterval, 15*time.Minute))
	assert.Check(t, is.Equal(c.LogLevel, logrus.InfoLevel))
	assert.Check(t, !c.AuthEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/biometrics")
	t.Setenv("SYNC_INTERVAL", "1h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("API_KEY_HASH", "$2a$10$abc")

	c, err := Load()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(c.Store, StorePostgres))
	assert.Check(t, is.Equal(c.SyncInterval, time.Hour))
	assert.Check(t, is.Equal(c.LogLevel, logrus.DebugLevel))
	assert.Check(t, c.AuthEnabled())

	l := logrus.New()
	c.ConfigureLogger(l)
	_, isJSON := l.Formatter.(*logrus.JSONFormatter)
	assert.Check(t, isJSON)
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "postgres")
	t.Setenv("SYNC_INTERVAL", "often")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("HEALTH_CLIENT_ID", "sync")
	t.Setenv("OIDC_ISSUER", "https://id.example.com")

	_, err := Load()
	assert.Check(t, is.ErrorContains(err, "DATABASE_URL is required"))
	assert.Check(t, is.ErrorContains(err, "SYNC_INTERVAL"))
	assert.Check(t, is.ErrorContains(err, "LOG_LEVEL"))
	assert.Check(t, is.ErrorContains(err, "HEALTH_TOKEN_URL"))
	assert.Check(t, is.ErrorContains(err, "OIDC_CLIENT_ID"))

	clearEnv(t)
	t.Setenv("STORE", "redis")
	_, err = Load()
	assert.Check(t, is.ErrorContains(err, "STORE must be one of"))
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	assert.NilError(t, os.WriteFile(path, []byte("ADDR=:9090\nSTORE=sqlite\n"), 0o600))

	// godotenv does not override variables that are set, even to "".
	assert.NilError(t, os.Unsetenv("ADDR"))
	assert.NilError(t, os.Unsetenv("STORE"))

	assert.NilError(t, LoadEnvFile(path))
	c, err := Load()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(c.Addr, ":9090"))
	assert.Check(t, is.Equal(c.Store, StoreSQLite))

	assert.Check(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")) != nil)
}
