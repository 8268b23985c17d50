// Package config provides application configuration with multi-source
// priority: environment variables override the optional config file, which
// overrides built-in defaults.
//
// Provider credentials are read from their conventional environment names
// (GEMINI_API_KEY, OPENAI_API_KEY, OLLAMA_HOST); presence of a credential at
// startup is what makes that provider available. Sensitive values are masked
// in MarshalJSON and must never be logged directly.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidPort indicates the listen port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidChunking indicates chunk size/overlap are inconsistent.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrInvalidTopK indicates the retrieval depth is out of range.
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrMissingDocsDir indicates no document directory is configured.
	ErrMissingDocsDir = errors.New("missing docs directory")

	// ErrInvalidTimeout indicates the generation timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid generate timeout")
)

// Default configuration values.
const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 5001
	DefaultDocsDir      = "docs"
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
	DefaultTopK         = 3
	DefaultTimeoutSecs  = 30
	DefaultRateBurst    = 60

	// MaxTopK caps retrieval depth; more chunks than this just bloats the
	// prompt without improving answers.
	MaxTopK = 10
)

// Config stores application configuration.
// SECURITY: API keys are masked in MarshalJSON. When adding new sensitive
// fields, update MarshalJSON.
type Config struct {
	// HTTP server
	Host        string   `mapstructure:"host" json:"host"`
	Port        int      `mapstructure:"port" json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Knowledge base
	DocsDir      string `mapstructure:"docs_dir" json:"docs_dir"`
	ChunkSize    int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	TopK         int    `mapstructure:"top_k" json:"top_k"`

	// Provider credentials and models
	GeminiAPIKey  string `mapstructure:"gemini_api_key" json:"gemini_api_key"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key" json:"openai_api_key"`
	OllamaHost    string `mapstructure:"ollama_host" json:"ollama_host"`
	GeminiModel   string `mapstructure:"gemini_model" json:"gemini_model"`
	OpenAIModel   string `mapstructure:"openai_model" json:"openai_model"`
	OllamaModel   string `mapstructure:"ollama_model" json:"ollama_model"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Generation
	GenerateTimeoutSecs int `mapstructure:"generate_timeout_secs" json:"generate_timeout_secs"`

	// Logging
	LogJSON bool `mapstructure:"log_json" json:"log_json"`
	Debug   bool `mapstructure:"debug" json:"debug"`
}

// Load reads configuration from defaults, an optional config file
// (./config.yaml or ~/.portfolio-engine/config.yaml), and environment
// variables, in ascending priority.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".portfolio-engine"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials keep their conventional names alongside the prefixed form.
	_ = v.BindEnv("gemini_api_key", "PORTFOLIO_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("openai_api_key", "PORTFOLIO_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("ollama_host", "PORTFOLIO_OLLAMA_HOST", "OLLAMA_HOST")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", DefaultRateBurst)
	v.SetDefault("docs_dir", DefaultDocsDir)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("chunk_overlap", DefaultChunkOverlap)
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("generate_timeout_secs", DefaultTimeoutSecs)
	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)
}

// Validate performs range checks on all tunable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (want 1-65535)", ErrInvalidPort, c.Port)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size %d must be positive", ErrInvalidChunking, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be in [0, chunk_size)", ErrInvalidChunking, c.ChunkOverlap)
	}
	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidTopK, c.TopK, MaxTopK)
	}
	if strings.TrimSpace(c.DocsDir) == "" {
		return ErrMissingDocsDir
	}
	if c.GenerateTimeoutSecs <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, c.GenerateTimeoutSecs)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GenerateTimeout returns the per-call generation timeout as a Duration.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSecs) * time.Second
}

// MarshalJSON masks credentials so a dumped config never leaks secrets.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	if masked.GeminiAPIKey != "" {
		masked.GeminiAPIKey = "***"
	}
	if masked.OpenAIAPIKey != "" {
		masked.OpenAIAPIKey = "***"
	}
	return json.Marshal(masked)
}
