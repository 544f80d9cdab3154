package database

import (
	"strings"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Driver != DriverPostgres {
		t.Errorf("expected driver %q, got %q", DriverPostgres, cfg.Driver)
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("expected MaxOpenConns 25, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("expected MaxIdleConns 5, got %d", cfg.MaxIdleConns)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("expected MaxRetries 5, got %d", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != "1s" {
		t.Errorf("expected RetryBackoff 1s, got %q", cfg.RetryBackoff)
	}
	if cfg.SlowQueryThreshold != "200ms" {
		t.Errorf("expected SlowQueryThreshold 200ms, got %q", cfg.SlowQueryThreshold)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected LogLevel warn, got %q", cfg.LogLevel)
	}
}

func TestConfig_ApplyDefaults_KeepsValues(t *testing.T) {
	cfg := Config{Driver: "SQLite", MaxOpenConns: 3, MaxIdleConns: 1}
	cfg.ApplyDefaults()

	if cfg.Driver != DriverSQLite {
		t.Errorf("expected lower-cased driver, got %q", cfg.Driver)
	}
	if cfg.MaxOpenConns != 3 || cfg.MaxIdleConns != 1 {
		t.Errorf("expected pool 3/1 to be kept, got %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := Config{Enabled: true, Driver: DriverSQLite, DSN: ":memory:"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.DSN = "" }, ""},
		{"unknown driver", func(c *Config) { c.Driver = "mysql" }, "driver must be one of"},
		{"missing dsn", func(c *Config) { c.DSN = "" }, "DSN is required"},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 30 }, "max_idle_conns (30)"},
		{"bad lifetime", func(c *Config) { c.ConnMaxLifetime = "forever" }, "invalid conn_max_lifetime"},
		{"bad backoff", func(c *Config) { c.RetryBackoff = "soon" }, "invalid retry_backoff"},
		{"bad threshold", func(c *Config) { c.SlowQueryThreshold = "x" }, "invalid slow_query_threshold"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.errMsg)
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestConfig_IsMemory(t *testing.T) {
	tests := []struct {
		cfg  Config
		want bool
	}{
		{Config{Driver: DriverSQLite, DSN: ":memory:"}, true},
		{Config{Driver: DriverSQLite, DSN: "file::memory:?cache=shared"}, true},
		{Config{Driver: DriverSQLite, DSN: "/tmp/toolbox.db"}, false},
		{Config{Driver: DriverPostgres, DSN: ":memory:"}, false},
	}
	for _, tc := range tests {
		if got := tc.cfg.IsMemory(); got != tc.want {
			t.Errorf("IsMemory(%s, %s) = %v, expected %v", tc.cfg.Driver, tc.cfg.DSN, got, tc.want)
		}
	}
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver  string
		name    string
		wantErr bool
	}{
		{"sqlite", "sqlite", false},
		{"postgres", "postgres", false},
		{"PostgreSQL", "postgres", false},
		{"mysql", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.driver, func(t *testing.T) {
			d, err := Dialector(tc.driver, "dsn")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported driver")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name() != tc.name {
				t.Errorf("expected dialector %q, got %q", tc.name, d.Name())
			}
		})
	}
}
