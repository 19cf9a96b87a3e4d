package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

func validConfig() Config {
	cfg := Config{
		Index: IndexConfig{Addrs: []string{"localhost:6379"}},
		CMS:   CMSConfig{URL: "https://cms.example.com", Token: "secret"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"index addrs", func(c *Config) { c.Index.Addrs = nil }, "index.addrs"},
		{"cms url", func(c *Config) { c.CMS.URL = "" }, "cms.url"},
		{"cms token", func(c *Config) { c.CMS.Token = "" }, "cms.token"},
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown index type", func(c *Config) { c.Index.Indexes = map[string]string{"podcast": "x"} }, "index.indexes"},
		{"empty index name", func(c *Config) { c.Index.Indexes = map[string]string{"episode": " "} }, "index.indexes.episode"},
		{"same type twice", func(c *Config) {
			c.Index.Indexes = map[string]string{"person": "a", " Person": "b"}
		}, "index.indexes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %q", err, tt.key)
			}
		})
	}
}

func TestIndexNames_NormalizesKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Indexes = map[string]string{"Daily-Pick": " picks_v2 ", " EPISODE": "shows"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := cfg.IndexNames()
	if got[domain.TypeDailyPick] != "picks_v2" || got[domain.TypeEpisode] != "shows" {
		t.Errorf("unexpected index names: %v", got)
	}
	if len(got) != 2 {
		t.Errorf("expected only normalized keys, got %v", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{CMS: CMSConfig{URL: "https://cms.example.com/"}}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.KeyPrefix != "searchsync:" {
		t.Errorf("expected KeyPrefix='searchsync:', got %q", cfg.Index.KeyPrefix)
	}
	if cfg.Index.CallTimeoutSec != 10 {
		t.Errorf("expected CallTimeoutSec=10, got %d", cfg.Index.CallTimeoutSec)
	}
	if cfg.Index.RatePerSec != 50 || cfg.Index.Burst != 50 {
		t.Errorf("expected rate 50/50, got %v/%d", cfg.Index.RatePerSec, cfg.Index.Burst)
	}
	if cfg.Index.BrowsePageSize != 1000 {
		t.Errorf("expected BrowsePageSize=1000, got %d", cfg.Index.BrowsePageSize)
	}
	if cfg.CMS.URL != "https://cms.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.CMS.URL)
	}
	if cfg.CMS.AssetsURL != "https://cms.example.com/assets" {
		t.Errorf("unexpected AssetsURL %q", cfg.CMS.AssetsURL)
	}
	if cfg.CMS.TimeoutSec != 15 {
		t.Errorf("expected TimeoutSec=15, got %d", cfg.CMS.TimeoutSec)
	}
	if cfg.Jobs.Concurrency != 8 {
		t.Errorf("expected Concurrency=8, got %d", cfg.Jobs.Concurrency)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 9000, ReadTimeoutSec: 30},
		Index: IndexConfig{KeyPrefix: "custom:", RatePerSec: 5, Burst: 20, Addrs: []string{"", " redis:6379 "}},
		CMS:   CMSConfig{URL: "https://cms", AssetsURL: "https://cdn/assets"},
		Jobs:  JobsConfig{Concurrency: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 || cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Index.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Index.KeyPrefix)
	}
	if cfg.Index.Burst != 20 {
		t.Errorf("expected Burst=20, got %d", cfg.Index.Burst)
	}
	if len(cfg.Index.Addrs) != 1 || cfg.Index.Addrs[0] != "redis:6379" {
		t.Errorf("expected blank addrs dropped, got %q", cfg.Index.Addrs)
	}
	if cfg.CMS.AssetsURL != "https://cdn/assets" {
		t.Errorf("AssetsURL overridden: %q", cfg.CMS.AssetsURL)
	}
	if cfg.Jobs.Concurrency != 2 {
		t.Errorf("expected Concurrency=2, got %d", cfg.Jobs.Concurrency)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SEARCHSYNC_TEST_URL", "https://cms.test")
	t.Setenv("SEARCHSYNC_TEST_EMPTY", "")

	in := "url: ${SEARCHSYNC_TEST_URL}\nprefix: ${SEARCHSYNC_TEST_EMPTY:-ss:}\nmissing: ${SEARCHSYNC_TEST_UNSET}\n"
	want := "url: https://cms.test\nprefix: ss:\nmissing: \n"
	if got := string(expandEnvVars([]byte(in))); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
index:
  addrs: ["${SEARCHSYNC_TEST_ADDR}"]
  indexes:
    person: speakers
cms:
  url: ${SEARCHSYNC_TEST_CMS_URL:-https://cms.test}
  token: ${SEARCHSYNC_TEST_TOKEN}
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unit.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("SEARCHSYNC_TEST_ADDR", "redis:6379")

	t.Run("missing token", func(t *testing.T) {
		t.Setenv("SEARCHSYNC_TEST_TOKEN", "")
		if _, err := Load("unit"); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("complete", func(t *testing.T) {
		t.Setenv("SEARCHSYNC_TEST_TOKEN", "secret")
		cfg, err := Load("unit")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.CMS.URL != "https://cms.test" || cfg.CMS.Token != "secret" {
			t.Errorf("unexpected cms config: %+v", cfg.CMS)
		}
		if got := cfg.IndexNames()[domain.TypePerson]; got != "speakers" {
			t.Errorf("expected speakers, got %q", got)
		}
	})
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "internal", "config")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "config", "unit.yaml")
	if err := os.WriteFile(want, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)
	t.Setenv(FileEnvVar, "")

	got, err := locate("unit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "unit.yaml" || filepath.Base(filepath.Dir(got)) != "config" {
		t.Errorf("expected parent config dir to be found, got %q", got)
	}

	if _, err := locate("absent"); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a missing file, got %v", err)
	}

	t.Setenv(FileEnvVar, "/etc/searchsync.yaml")
	if got, _ := locate("unit"); got != "/etc/searchsync.yaml" {
		t.Errorf("expected explicit file to win, got %q", got)
	}
}
