package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/toolbox/database/query"
	"github.com/kbukum/toolbox/database/schema"
)

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging in production, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid test", ServiceConfig{Name: "svc", Environment: "test"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("catalog", WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "catalog" {
		t.Errorf("expected name 'catalog', got %q", cfg.Name)
	}
	if cfg.Version == "" {
		t.Error("expected the build version as default")
	}
	if cfg.Pagination.PerPage != query.DefaultPageSize {
		t.Errorf("expected per_page %d, got %d", query.DefaultPageSize, cfg.Pagination.PerPage)
	}
	if cfg.Pagination.MaxPerPage != query.MaxPageSize {
		t.Errorf("expected max_per_page %d, got %d", query.MaxPageSize, cfg.Pagination.MaxPerPage)
	}
	if cfg.Metadata.MaxDepth != schema.DefaultMaxDepth {
		t.Errorf("expected max_depth %d, got %d", schema.DefaultMaxDepth, cfg.Metadata.MaxDepth)
	}
	if cfg.Observability.Enabled {
		t.Error("expected observability disabled by default")
	}
	if cfg.Observability.MetricInterval != 15*time.Second {
		t.Errorf("expected metric interval 15s, got %s", cfg.Observability.MetricInterval)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
name: catalog
environment: staging
database:
  enabled: true
  driver: sqlite
  dsn: "file::memory:"
pagination:
  per_page: 10
  max_per_page: 40
metadata:
  max_depth: 2
observability:
  enabled: true
  endpoint: collector:4318
  sample_rate: 0.25
  metric_interval: 30s
`)

	cfg, err := Load("catalog", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "file::memory:" {
		t.Errorf("unexpected database section: %+v", cfg.Database)
	}
	if cfg.Pagination.PerPage != 10 || cfg.Pagination.MaxPerPage != 40 {
		t.Errorf("unexpected pagination section: %+v", cfg.Pagination)
	}
	if cfg.Metadata.MaxDepth != 2 {
		t.Errorf("expected max_depth 2, got %d", cfg.Metadata.MaxDepth)
	}
	if cfg.Observability.Endpoint != "collector:4318" || cfg.Observability.SampleRate != 0.25 {
		t.Errorf("unexpected observability section: %+v", cfg.Observability)
	}
	if cfg.Observability.MetricInterval != 30*time.Second {
		t.Errorf("expected metric interval 30s, got %s", cfg.Observability.MetricInterval)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yml", "pagination:\n  per_page: 10\n")
	t.Setenv("TOOLBOX_PAGINATION_PER_PAGE", "30")
	t.Setenv("TOOLBOX_METADATA_MAX_DEPTH", "3")

	cfg, err := Load("catalog", WithConfigFile(path), WithEnvPrefix("toolbox_"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pagination.PerPage != 30 {
		t.Errorf("expected env per_page 30, got %d", cfg.Pagination.PerPage)
	}
	if cfg.Metadata.MaxDepth != 3 {
		t.Errorf("expected env max_depth 3, got %d", cfg.Metadata.MaxDepth)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", "TOOLBOX_ENV_FILE_PAGINATION_MAX_PER_PAGE=60\n")
	t.Cleanup(func() { os.Unsetenv("TOOLBOX_ENV_FILE_PAGINATION_MAX_PER_PAGE") })

	cfg, err := Load("catalog", WithEnvFile(envPath), WithEnvPrefix("TOOLBOX_ENV_FILE"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pagination.MaxPerPage != 60 {
		t.Errorf("expected max_per_page 60 from .env, got %d", cfg.Pagination.MaxPerPage)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"pagination", "pagination:\n  per_page: 50\n  max_per_page: 10\n", "config.pagination"},
		{"database", "database:\n  enabled: true\n  driver: sqlite\n", "config.database"},
		{"observability", "observability:\n  enabled: true\n  sample_rate: 2\n", "config.observability"},
		{"environment", "environment: moon\n", "config.environment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "config.yml", tc.yaml)
			_, err := Load("catalog", WithConfigFile(path))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var cfg Config
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	var cfg Config
	err := LoadConfig("catalog", &cfg, WithFileSystem(&mockFS{}), WithDefault("pagination.per_page", 7))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pagination.PerPage != 7 {
		t.Errorf("expected default per_page 7, got %d", cfg.Pagination.PerPage)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/catalog.yaml": true,
		"./.env":                true,
	}}
	resolver := &Resolver{FileSystem: fs}

	files := resolver.ResolveFiles("catalog", LoaderConfig{})
	if files.ConfigFile != "./config/catalog.yaml" {
		t.Errorf("expected ./config/catalog.yaml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("catalog", LoaderConfig{ConfigFile: "/etc/catalog.yml"})
	if explicit.ConfigFile != "/etc/catalog.yml" {
		t.Errorf("expected explicit path to win, got %q", explicit.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("PAGINATION_PER_PAGE")
	want := []string{"pagination_per_page", "pagination.per.page", "pagination.per_page"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if single := envKeyVariants("DEBUG"); len(single) != 1 || single[0] != "debug" {
		t.Errorf("expected [debug], got %v", single)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("toolbox_")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "TOOLBOX" {
		t.Errorf("expected prefix TOOLBOX, got %q", lc.EnvPrefix)
	}
}
