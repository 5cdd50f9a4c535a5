package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vector store drivers.
const (
	DriverQdrant = "qdrant"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the ragchat server configuration.
type Config struct {
	HTTP        HTTPConfig                `yaml:"http"`
	VectorStore VectorStoreConfig         `yaml:"vector_store"`
	Providers   map[string]ProviderConfig `yaml:"providers"`
	Embedding   EmbeddingConfig           `yaml:"embedding"`
	Generation  GenerationConfig          `yaml:"generation"`
	Logging     LoggingConfig             `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
}

// VectorStoreConfig selects and configures the similarity search backend.
type VectorStoreConfig struct {
	Driver string `yaml:"driver"` // qdrant (default), redis, valkey

	// qdrant
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`

	// redis / valkey
	Addrs       []string `yaml:"addrs"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	DB          int      `yaml:"db"`
	VectorField string   `yaml:"vector_field"`

	Collection       string `yaml:"collection"`
	TextField        string `yaml:"text_field"`
	TopK             int    `yaml:"top_k"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// ProviderConfig holds credentials for an OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig selects the answering model.
type GenerationConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

// Defaults.
const (
	DefaultProvider        = "gemini"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultEmbeddingModel  = "text-embedding-004"
	DefaultGenerationModel = "gemini-2.0-flash"
	DefaultTopK            = 5
	DefaultMaxOutputTokens = 2048
	DefaultTextField       = "text"
	DefaultMaxBodyBytes    = 1 << 20
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} substitution, applies defaults and validates.
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
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = DefaultMaxBodyBytes
	}

	vs := &c.VectorStore
	if vs.Driver == "" {
		vs.Driver = DriverQdrant
	}
	if vs.TextField == "" {
		vs.TextField = DefaultTextField
	}
	if vs.TopK <= 0 {
		vs.TopK = DefaultTopK
	}
	if vs.TimeoutSec <= 0 {
		vs.TimeoutSec = 10
	}
	if vs.ReadinessTimeout <= 0 {
		vs.ReadinessTimeout = 10
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = DefaultProvider
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = DefaultProvider
	}
	if c.Generation.Model == "" {
		c.Generation.Model = DefaultGenerationModel
	}
	if c.Generation.MaxOutputTokens <= 0 {
		c.Generation.MaxOutputTokens = DefaultMaxOutputTokens
	}

	for name, p := range c.Providers {
		if p.BaseURL == "" && name == DefaultProvider {
			p.BaseURL = DefaultGeminiBaseURL
			c.Providers[name] = p
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	vs := c.VectorStore
	switch vs.Driver {
	case DriverQdrant:
		if vs.URL == "" {
			return fmt.Errorf("vector_store.url is required for driver %q", vs.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(vs.Addrs) == 0 {
			return fmt.Errorf("vector_store.addrs is required for driver %q", vs.Driver)
		}
	default:
		return fmt.Errorf("vector_store.driver must be \"qdrant\", \"redis\" or \"valkey\", got %q", vs.Driver)
	}
	if vs.Collection == "" {
		return fmt.Errorf("vector_store.collection is required")
	}

	if _, ok := c.Providers[c.Embedding.Provider]; !ok {
		return fmt.Errorf("embedding.provider %q is not defined in providers", c.Embedding.Provider)
	}
	if _, ok := c.Providers[c.Generation.Provider]; !ok {
		return fmt.Errorf("generation.provider %q is not defined in providers", c.Generation.Provider)
	}
	for name, p := range c.Providers {
		if p.APIKey == "" {
			return fmt.Errorf("providers.%s.api_key is required", name)
		}
	}
	return nil
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
