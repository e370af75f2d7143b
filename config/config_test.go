package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AUTH_MODE", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthModeStatic, cfg.Auth.Mode)
	assert.True(t, cfg.Auth.Static, "the stub predicate lets everyone in by default")
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.MealDB.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.MealDB.CacheTTL)
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdirTemp(t)

	yml := filepath.Join(dir, "recipebook.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`
port: "9000"
db:
  driver: sqlite
  path: /tmp/x.db
mealdb:
  cache_ttl: 30s
auth:
  static: false
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEALDB_BASE_URL=https://mealdb.test/api\n"), 0o644))
	// godotenv only fills unset variables; t.Setenv restores the original afterwards
	t.Setenv("MEALDB_BASE_URL", "")
	require.NoError(t, os.Unsetenv("MEALDB_BASE_URL"))
	t.Setenv("PORT", "9100")

	cfg, err := Load(yml)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env beats file")
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.MealDB.CacheTTL)
	assert.False(t, cfg.Auth.Static)
	assert.Equal(t, "https://mealdb.test/api", cfg.MealDB.BaseURL, ".env fills unset variables")
}

func TestLoadSecureCookie(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AUTH_MODE", "")

	t.Setenv("ENV", "development")
	t.Setenv("SESSION_SECURE", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Auth.SecureCookie)

	t.Setenv("SESSION_SECURE", "true")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Auth.SecureCookie)

	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECURE", "false")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Auth.SecureCookie, "production always sets Secure")
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("AUTH_MODE", "static")
	t.Setenv("AUTH_STATIC", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "AUTH_STATIC")

	t.Setenv("AUTH_STATIC", "")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load("")
	assert.ErrorContains(t, err, "mysql")
}

func TestLoadMissingFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
