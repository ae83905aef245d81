package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Database drivers.
const (
	DriverValkey   = "valkey"
	DriverRedis    = "redis"
	DriverMilvus   = "milvus"
	DriverPostgres = "postgres"
)

// Config holds the talentdex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Resume    ResumeConfig    `yaml:"resume"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Auth      AuthConfig      `yaml:"auth"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
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

// DatabaseConfig selects the similarity index backend.
type DatabaseConfig struct {
	Driver           string         `yaml:"driver"` // valkey, redis, milvus, postgres (default: valkey)
	Addrs            []string       `yaml:"addrs"`
	Password         string         `yaml:"password"`
	ReadinessTimeout int            `yaml:"readiness_timeout_sec"`
	HNSWM            int            `yaml:"hnsw_m"`
	HNSWEFConstruct  int            `yaml:"hnsw_ef_construction"`
	Milvus           MilvusConfig   `yaml:"milvus"`
	Postgres         PostgresConfig `yaml:"postgres"`
}

// MilvusConfig holds Milvus connection settings.
type MilvusConfig struct {
	Address          string `yaml:"address"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	CollectionPrefix string `yaml:"collection_prefix"`
	SearchEf         int    `yaml:"search_ef"`
}

// PostgresConfig holds pgvector connection settings.
type PostgresConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_sec"`
}

// EmbeddingConfig holds embedding settings.
type EmbeddingConfig struct {
	Providers   map[string]ProviderConfig   `yaml:"providers"`
	Vectorizers map[string]VectorizerConfig `yaml:"vectorizers"`
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// VectorizerConfig holds vectorizer settings.
type VectorizerConfig struct {
	Provider            string `yaml:"provider"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
}

// CacheConfig holds the embedding cache settings. The cache lives in
// Valkey/Redis and is only available with those drivers.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"` // 0 = no expiry
}

// SearchConfig holds retrieval and ranking parameters.
type SearchConfig struct {
	StrictFields     []string    `yaml:"strict_fields"`
	SimilarityCutoff *float64    `yaml:"similarity_cutoff"`
	TopK             int         `yaml:"top_k"`
	MaxResults       int         `yaml:"max_results"`
	IndexTimeoutMS   int         `yaml:"index_timeout_ms"`
	Tier3            Tier3Config `yaml:"tier3"`
}

// Tier3Config overrides the parameters of the unconstrained last tier.
// Unset values fall back to the Tier 1/2 settings.
type Tier3Config struct {
	SimilarityCutoff *float64 `yaml:"similarity_cutoff"`
	TopK             int      `yaml:"top_k"`
}

// ResumeConfig holds resume viewer settings.
type ResumeConfig struct {
	PopupURL string `yaml:"popup_url"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	Workers int `yaml:"workers"` // 0 = NumCPU/2
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.HNSWM <= 0 {
		c.Database.HNSWM = 16
	}
	if c.Database.HNSWEFConstruct <= 0 {
		c.Database.HNSWEFConstruct = 200
	}
	if c.Database.Milvus.CollectionPrefix == "" {
		c.Database.Milvus.CollectionPrefix = "talentdex"
	}
	if c.Database.Postgres.MaxOpenConns <= 0 {
		c.Database.Postgres.MaxOpenConns = 10
	}
	if c.Search.SimilarityCutoff == nil {
		c.Search.SimilarityCutoff = ptr(0.7)
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 100
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 20
	}
	if c.Search.IndexTimeoutMS <= 0 {
		c.Search.IndexTimeoutMS = 10000
	}
	if c.Search.Tier3.SimilarityCutoff == nil {
		c.Search.Tier3.SimilarityCutoff = ptr(*c.Search.SimilarityCutoff)
	}
	if c.Search.Tier3.TopK <= 0 {
		c.Search.Tier3.TopK = c.Search.TopK
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "talentdex"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
	case DriverMilvus:
		if c.Database.Milvus.Address == "" {
			return fmt.Errorf("database.milvus.address is required")
		}
	case DriverPostgres:
		if c.Database.Postgres.DSN == "" {
			return fmt.Errorf("database.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("database.driver must be one of valkey, redis, milvus, postgres, got %q", c.Database.Driver)
	}

	if c.Cache.Enabled && !c.UsesKeyValueStore() {
		return fmt.Errorf("cache.enabled requires the valkey or redis driver, got %q", c.Database.Driver)
	}

	for name, v := range c.Embedding.Vectorizers {
		if _, ok := c.Embedding.Providers[v.Provider]; !ok {
			return fmt.Errorf("embedding.vectorizers.%s: unknown provider %q", name, v.Provider)
		}
	}

	if err := validateCutoff("search.similarity_cutoff", c.Search.SimilarityCutoff); err != nil {
		return err
	}
	if err := validateCutoff("search.tier3.similarity_cutoff", c.Search.Tier3.SimilarityCutoff); err != nil {
		return err
	}
	if err := candidate.ValidateStrictKeys(c.Search.StrictFields); err != nil {
		return fmt.Errorf("search.strict_fields: %w", err)
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

// UsesKeyValueStore reports whether the driver is Valkey or Redis.
func (c *Config) UsesKeyValueStore() bool {
	return c.Database.Driver == DriverValkey || c.Database.Driver == DriverRedis
}

// Vectorizer returns the vectorizer and its provider. With several
// vectorizers configured the alphabetically first name wins.
func (c *Config) Vectorizer() (string, VectorizerConfig, ProviderConfig, bool) {
	var first string
	for name := range c.Embedding.Vectorizers {
		if first == "" || name < first {
			first = name
		}
	}
	if first == "" {
		return "", VectorizerConfig{}, ProviderConfig{}, false
	}
	v := c.Embedding.Vectorizers[first]
	return v.Provider, v, c.Embedding.Providers[v.Provider], true
}

func validateCutoff(name string, v *float64) error {
	if v != nil && (*v < 0 || *v > 1) {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, *v)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
