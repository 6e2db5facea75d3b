package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATASET_PATH", "")
	t.Setenv("DEFAULT_MAX_PRICE", "")
	t.Setenv("TOP_HOSTS", "")
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("WATCH_DATASET", "")

	cfg := Load()
	if cfg.DatasetPath != "./AB_NYC_2019.csv" {
		t.Errorf("DatasetPath: got %q, want %q", cfg.DatasetPath, "./AB_NYC_2019.csv")
	}
	if cfg.DefaultMaxPrice != 500 {
		t.Errorf("DefaultMaxPrice: got %d, want 500", cfg.DefaultMaxPrice)
	}
	if cfg.TopHosts != 10 {
		t.Errorf("TopHosts: got %d, want 10", cfg.TopHosts)
	}
	if cfg.DataSource != SourceCSV {
		t.Errorf("DataSource: got %q, want %q", cfg.DataSource, SourceCSV)
	}
	if !cfg.WatchDataset {
		t.Error("WatchDataset should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_MAX_PRICE", "250")
	t.Setenv("TOP_HOSTS", "not-a-number")
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("WATCH_DATASET", "false")

	cfg := Load()
	if cfg.DefaultMaxPrice != 250 {
		t.Errorf("DefaultMaxPrice: got %d, want 250", cfg.DefaultMaxPrice)
	}
	if cfg.TopHosts != 10 {
		t.Errorf("TopHosts with bad value: got %d, want fallback 10", cfg.TopHosts)
	}
	if cfg.DataSource != SourcePostgres {
		t.Errorf("DataSource: got %q, want %q", cfg.DataSource, SourcePostgres)
	}
	if cfg.WatchDataset {
		t.Error("WatchDataset should be false")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "nyc", PostgresSSLMode: "disable",
	}
	want := "host=db port=5433 user=u password=p dbname=nyc sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{DataSource: SourceCSV, DefaultMaxPrice: 500, TopHosts: 10, CacheTTLSec: 600}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.DataSource = "s3" }},
		{"negative price", func(c *Config) { c.DefaultMaxPrice = -1 }},
		{"zero hosts", func(c *Config) { c.TopHosts = 0 }},
		{"negative ttl", func(c *Config) { c.CacheTTLSec = -5 }},
	}
	for _, tt := range tests {
		c := valid
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
