package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the storefront API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Index   IndexConfig   `yaml:"index"`
	Upstash UpstashConfig `yaml:"upstash"`
	Valkey  ValkeyConfig  `yaml:"valkey"`
	Qdrant  QdrantConfig  `yaml:"qdrant"`
	Query   QueryConfig   `yaml:"query"`
	Seed    SeedConfig    `yaml:"seed"`
	CORS    CORSConfig    `yaml:"cors"`
	Auth    AuthConfig    `yaml:"auth"`
	Tracing TracingConfig `yaml:"tracing"`
	Logging LoggingConfig `yaml:"logging"`
}

// Supported index drivers.
const (
	DriverUpstash = "upstash"
	DriverValkey  = "valkey"
	DriverRedis   = "redis"
	DriverQdrant  = "qdrant"
	DriverMemory  = "memory"
)

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty APIKeys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	Driver           string `yaml:"driver"` // upstash, valkey, redis, qdrant, memory (default: upstash)
	Name             string `yaml:"name"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// UpstashConfig holds Upstash Vector REST settings.
type UpstashConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	Namespace  string `yaml:"namespace"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ValkeyConfig holds Valkey/Redis connection settings.
type ValkeyConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// QdrantConfig holds Qdrant gRPC settings.
type QdrantConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// QueryConfig holds catalog query parameters.
type QueryConfig struct {
	TopK            int     `yaml:"top_k"`
	MaxProductPrice float64 `yaml:"max_product_price"`
	AvgProductPrice float64 `yaml:"avg_product_price"`
}

// SeedConfig holds demo catalogue generation settings.
type SeedConfig struct {
	BatchSize  int   `yaml:"batch_size"`
	RandomSeed int64 `yaml:"random_seed"`
}

// TracingConfig holds OpenTelemetry exporter settings. Empty Endpoint disables export.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverUpstash
	}
	if c.Index.Name == "" {
		c.Index.Name = "products"
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Upstash.TimeoutSec <= 0 {
		c.Upstash.TimeoutSec = 10
	}
	if c.Valkey.KeyPrefix == "" {
		c.Valkey.KeyPrefix = "storefront:"
	}
	if c.Qdrant.Port <= 0 {
		c.Qdrant.Port = 6334
	}
	if c.Query.TopK <= 0 {
		c.Query.TopK = 30
	}
	if c.Query.MaxProductPrice <= 0 {
		c.Query.MaxProductPrice = 50
	}
	if c.Query.AvgProductPrice <= 0 {
		c.Query.AvgProductPrice = 25
	}
	if c.Seed.BatchSize <= 0 {
		c.Seed.BatchSize = 100
	}
	if c.Seed.RandomSeed == 0 {
		c.Seed.RandomSeed = 42
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "storefront"
	}
	if c.Tracing.SampleRatio <= 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Index.Driver {
	case DriverUpstash:
		if c.Upstash.URL == "" {
			return fmt.Errorf("upstash.url is required")
		}
		if c.Upstash.Token == "" {
			return fmt.Errorf("upstash.token is required")
		}
	case DriverValkey, DriverRedis:
		if len(c.Valkey.Addrs) == 0 {
			return fmt.Errorf("valkey.addrs is required")
		}
	case DriverQdrant:
		if c.Qdrant.Host == "" {
			return fmt.Errorf("qdrant.host is required")
		}
	case DriverMemory:
		// ok
	default:
		return fmt.Errorf(
			"index.driver must be one of upstash, valkey, redis, qdrant, memory, got %q",
			c.Index.Driver,
		)
	}

	if c.Query.AvgProductPrice > c.Query.MaxProductPrice {
		return fmt.Errorf(
			"query.avg_product_price (%g) must not exceed query.max_product_price (%g)",
			c.Query.AvgProductPrice, c.Query.MaxProductPrice,
		)
	}
	if c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in (0, 1], got %g", c.Tracing.SampleRatio)
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs from path without overriding variables already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

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
