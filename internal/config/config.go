package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Planning backend
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8765"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"120s"`
	ParseTimeout   time.Duration `envconfig:"PARSE_TIMEOUT" default:"60s"`

	// Project inputs sent with every request
	ProjectName      string `envconfig:"PROJECT_NAME" default:"Construction Project"`
	SiteDims         string `envconfig:"SITE_DIMS"`
	DefaultDelayType string `envconfig:"DEFAULT_DELAY_TYPE" default:"material"`

	// Dashboard API
	DashboardListenAddr     string `envconfig:"DASHBOARD_LISTEN_ADDR" default:":8090"`
	DashboardCORSOrigins    string `envconfig:"DASHBOARD_CORS_ORIGINS"`
	DashboardRateLimitRPS   int    `envconfig:"DASHBOARD_RATE_LIMIT_RPS" default:"100"`
	DashboardRateLimitBurst int    `envconfig:"DASHBOARD_RATE_LIMIT_BURST" default:"200"`
}

// IsDevelopment reports whether logs should be human-readable.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// CORSOriginList returns the configured CORS origins, or nil when CORS is off.
func (c *Config) CORSOriginList() []string {
	if c.DashboardCORSOrigins == "" {
		return nil
	}
	parts := strings.Split(c.DashboardCORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, o := range parts {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Profile is a per-project YAML file. Set fields override the environment.
//
//	project: Riverside Tower
//	dims: 240ft x 180ft
//	backend_url: http://planner.internal:8765
//	delay_type: weather
type Profile struct {
	Project    string `yaml:"project,omitempty"`
	Dims       string `yaml:"dims,omitempty"`
	BackendURL string `yaml:"backend_url,omitempty"`
	DelayType  string `yaml:"delay_type,omitempty"`
}

// LoadProfile reads a profile from path. A missing file yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &p, nil
}

// ApplyProfile overlays the non-empty profile fields onto c.
func (c *Config) ApplyProfile(p *Profile) {
	if p == nil {
		return
	}
	if v := strings.TrimSpace(p.Project); v != "" {
		c.ProjectName = v
	}
	if v := strings.TrimSpace(p.Dims); v != "" {
		c.SiteDims = v
	}
	if v := strings.TrimSpace(p.BackendURL); v != "" {
		c.BackendURL = v
	}
	if v := strings.TrimSpace(p.DelayType); v != "" {
		c.DefaultDelayType = v
	}
}
