package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_DRIVER", "File")
	t.Setenv("FILE_STORE_DIR", "/tmp/onboard")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DASHBOARD_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/onboard", cfg.FileStore.Dir)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_DRIVER", "firestore")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadAuthRequiresCredentials(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENABLE_AUTH", "true")

	_, err := Load()
	require.Error(t, err)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
