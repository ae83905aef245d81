package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingValkeyAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing valkey addrs")
	}
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"redis ok", func(c *Config) { c.Database.Driver = DriverRedis }, ""},
		{"milvus missing address", func(c *Config) { c.Database.Driver = DriverMilvus }, "database.milvus.address"},
		{"milvus ok", func(c *Config) {
			c.Database.Driver = DriverMilvus
			c.Database.Milvus.Address = "localhost:19530"
		}, ""},
		{"postgres missing dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "database.postgres.dsn"},
		{"postgres ok", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Postgres.DSN = "postgres://localhost/talentdex"
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, "database.driver"},
		{"cache needs kv store", func(c *Config) {
			c.Database.Driver = DriverMilvus
			c.Database.Milvus.Address = "localhost:19530"
			c.Cache.Enabled = true
		}, "cache.enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_Search(t *testing.T) {
	cfg := validConfig()
	cfg.Search.SimilarityCutoff = ptr(1.5)
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for cutoff > 1")
	}

	cfg = validConfig()
	cfg.Search.StrictFields = []string{"favourite_color"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown strict field")
	}

	cfg = validConfig()
	cfg.Search.StrictFields = []string{"location", "job_title"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Vectorizers = map[string]VectorizerConfig{
		"default": {Provider: "nebius", Model: "m"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for vectorizer with unknown provider")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected driver valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Database.HNSWM)
	}
	if *cfg.Search.SimilarityCutoff != 0.7 {
		t.Errorf("expected cutoff 0.7, got %v", *cfg.Search.SimilarityCutoff)
	}
	if cfg.Search.TopK != 100 || cfg.Search.MaxResults != 20 {
		t.Errorf("expected top_k=100 max_results=20, got %d %d", cfg.Search.TopK, cfg.Search.MaxResults)
	}
	if *cfg.Search.Tier3.SimilarityCutoff != 0.7 || cfg.Search.Tier3.TopK != 100 {
		t.Errorf("tier3 should inherit tier 1/2 settings, got %v %d",
			*cfg.Search.Tier3.SimilarityCutoff, cfg.Search.Tier3.TopK)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search: SearchConfig{SimilarityCutoff: ptr(0.0), TopK: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if *cfg.Search.SimilarityCutoff != 0 {
		t.Errorf("explicit zero cutoff must be kept, got %v", *cfg.Search.SimilarityCutoff)
	}
	if cfg.Search.Tier3.TopK != 50 {
		t.Errorf("expected tier3 top_k=50, got %d", cfg.Search.Tier3.TopK)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TALENTDEX_TEST_PORT", "9090")

	cfg, err := Parse([]byte(`
http:
  port: ${TALENTDEX_TEST_PORT}
database:
  addrs: ["${TALENTDEX_TEST_ADDR:-valkey:6379}"]
resume:
  popup_url: https://ats.example.com/popup
search:
  similarity_cutoff: 0.6
  tier3:
    top_k: 300
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Addrs[0] != "valkey:6379" {
		t.Errorf("expected default addr, got %q", cfg.Database.Addrs[0])
	}
	if cfg.Resume.PopupURL != "https://ats.example.com/popup" {
		t.Errorf("unexpected popup url %q", cfg.Resume.PopupURL)
	}
	if *cfg.Search.Tier3.SimilarityCutoff != 0.6 || cfg.Search.Tier3.TopK != 300 {
		t.Errorf("unexpected tier3: %v %d", *cfg.Search.Tier3.SimilarityCutoff, cfg.Search.Tier3.TopK)
	}
}

func TestVectorizer(t *testing.T) {
	cfg := validConfig()
	if _, _, _, ok := cfg.Vectorizer(); ok {
		t.Error("expected no vectorizer")
	}

	cfg.Embedding = EmbeddingConfig{
		Providers: map[string]ProviderConfig{"nebius": {APIKey: "k"}},
		Vectorizers: map[string]VectorizerConfig{
			"b": {Provider: "nebius", Model: "second"},
			"a": {Provider: "nebius", Model: "first"},
		},
	}
	prov, v, p, ok := cfg.Vectorizer()
	if !ok || prov != "nebius" || v.Model != "first" || p.APIKey != "k" {
		t.Errorf("Vectorizer() = %q %+v %+v %v", prov, v, p, ok)
	}
}
