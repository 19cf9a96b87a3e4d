package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// Config holds the searchsync configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Index   IndexConfig   `yaml:"index"`
	CMS     CMSConfig     `yaml:"cms"`
	Jobs    JobsConfig    `yaml:"jobs"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json, console (default: determined by env)
}

// AuthConfig holds hook endpoint authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig holds search index connection and throttling settings.
type IndexConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	CallTimeoutSec   int      `yaml:"call_timeout_sec"`
	RatePerSec       float64  `yaml:"rate_per_sec"`
	Burst            int      `yaml:"burst"`
	BrowsePageSize   int      `yaml:"browse_page_size"`
	// Indexes maps content type -> index name. Missing types use the collection name.
	Indexes map[string]string `yaml:"indexes"`
}

// CMSConfig holds canonical store settings.
type CMSConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	AssetsURL  string `yaml:"assets_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// JobsConfig holds rebuild and repair settings.
type JobsConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// FileEnvVar names an explicit config file that bypasses the per-environment lookup.
const FileEnvVar = "SEARCHSYNC_CONFIG"

// Load reads config/{env}.yaml (or the file named by SEARCHSYNC_CONFIG), expands
// ${VAR} references, applies defaults and validates the result.
func Load(env string) (Config, error) {
	path, err := locate(env)
	if err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	// ${VAR} expanding to nothing leaves empty entries behind.
	addrs := c.Index.Addrs[:0]
	for _, a := range c.Index.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	c.Index.Addrs = addrs

	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "searchsync:"
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Index.CallTimeoutSec <= 0 {
		c.Index.CallTimeoutSec = 10
	}
	if c.Index.RatePerSec <= 0 {
		c.Index.RatePerSec = 50
	}
	if c.Index.Burst <= 0 {
		c.Index.Burst = int(c.Index.RatePerSec)
	}
	if c.Index.BrowsePageSize <= 0 {
		c.Index.BrowsePageSize = 1000
	}

	c.CMS.URL = strings.TrimRight(c.CMS.URL, "/")
	if c.CMS.AssetsURL == "" && c.CMS.URL != "" {
		c.CMS.AssetsURL = c.CMS.URL + "/assets"
	}
	if c.CMS.TimeoutSec <= 0 {
		c.CMS.TimeoutSec = 15
	}

	if c.Jobs.Concurrency <= 0 {
		c.Jobs.Concurrency = 8
	}
}

// Validate checks the configuration for correctness. Errors wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return invalid("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Index.Addrs) == 0 {
		return invalid("index.addrs is required")
	}
	if c.CMS.URL == "" {
		return invalid("cms.url is required")
	}
	if c.CMS.Token == "" {
		return invalid("cms.token is required")
	}
	seen := make(map[domain.ContentType]string, len(c.Index.Indexes))
	for key, name := range c.Index.Indexes {
		ct, err := domain.ParseContentType(key)
		if err != nil {
			return invalid("index.indexes: unknown content type %q", key)
		}
		if prev, dup := seen[ct]; dup {
			return invalid("index.indexes: %q and %q both name %s", prev, key, ct)
		}
		seen[ct] = key
		if strings.TrimSpace(name) == "" {
			return invalid("index.indexes.%s must not be empty", key)
		}
	}
	return nil
}

// IndexNames returns the configured index name per content type. Keys are
// normalized the same way Validate parses them.
func (c *Config) IndexNames() map[domain.ContentType]string {
	out := make(map[domain.ContentType]string, len(c.Index.Indexes))
	for key, name := range c.Index.Indexes {
		if ct, err := domain.ParseContentType(key); err == nil {
			out[ct] = strings.TrimSpace(name)
		}
	}
	return out
}

// CallTimeout returns the per-command index timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Index.CallTimeoutSec) * time.Second
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// locate walks up from the working directory looking for config/{env}.yaml, so
// the binary and package tests resolve the same file.
func locate(env string) (string, error) {
	if p := os.Getenv(FileEnvVar); p != "" {
		return p, nil
	}
	rel := filepath.Join("config", env+".yaml")
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s not found", domain.ErrInvalidConfig, rel)
		}
		dir = parent
	}
}

var envRef = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars substitutes ${VAR} and ${VAR:-fallback}. The fallback applies when
// VAR is unset or empty.
func expandEnvVars(raw []byte) []byte {
	return envRef.ReplaceAllFunc(raw, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		if v := os.Getenv(string(m[1])); v != "" {
			return []byte(v)
		}
		return m[3]
	})
}
