// Package config tests.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8765", cfg.BackendURL)
	assert.Equal(t, 120*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 60*time.Second, cfg.ParseTimeout)
	assert.Equal(t, "Construction Project", cfg.ProjectName)
	assert.Equal(t, "material", cfg.DefaultDelayType)
	assert.Equal(t, ":8090", cfg.DashboardListenAddr)
	assert.Equal(t, 100, cfg.DashboardRateLimitRPS)
	assert.Equal(t, 200, cfg.DashboardRateLimitBurst)
	assert.True(t, cfg.IsDevelopment())
	assert.Nil(t, cfg.CORSOriginList())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("BACKEND_URL", "http://planner:9000")
	t.Setenv("BACKEND_TIMEOUT", "30s")
	t.Setenv("PROJECT_NAME", "Riverside Tower")
	t.Setenv("SITE_DIMS", "240ft x 180ft")
	t.Setenv("DASHBOARD_CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://planner:9000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "Riverside Tower", cfg.ProjectName)
	assert.Equal(t, "240ft x 180ft", cfg.SiteDims)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOriginList())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("PARSE_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"project: Riverside Tower\ndims: 240ft x 180ft\ndelay_type: weather\n"), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Tower", p.Project)
	assert.Equal(t, "weather", p.DelayType)
	assert.Empty(t, p.BackendURL)

	cfg := &Config{ProjectName: "Construction Project", BackendURL: "http://localhost:8765", DefaultDelayType: "material"}
	cfg.ApplyProfile(p)
	assert.Equal(t, "Riverside Tower", cfg.ProjectName)
	assert.Equal(t, "240ft x 180ft", cfg.SiteDims)
	assert.Equal(t, "http://localhost:8765", cfg.BackendURL)
	assert.Equal(t, "weather", cfg.DefaultDelayType)
}

func TestLoadProfile_Missing(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Profile{}, p)
}

func TestLoadProfile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: [unterminated"), 0o600))
	_, err := LoadProfile(path)
	require.Error(t, err)
}

func TestApplyProfile_Nil(t *testing.T) {
	cfg := &Config{ProjectName: "X"}
	cfg.ApplyProfile(nil)
	assert.Equal(t, "X", cfg.ProjectName)
}
