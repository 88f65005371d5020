package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration loaded from .env and the environment.
type Config struct {
	Port           string `mapstructure:"PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	NasaAPIKey    string `mapstructure:"NASA_API_KEY"`
	NasaAPIURL    string `mapstructure:"NASA_API_URL"`
	NasaImagesURL string `mapstructure:"NASA_IMAGES_URL"`

	AIProvider    string `mapstructure:"AI_PROVIDER"`
	CFAPIURL      string `mapstructure:"CF_API_URL"`
	CFAccountID   string `mapstructure:"CF_ACCOUNT_ID"`
	CFAPIToken    string `mapstructure:"CF_API_TOKEN"`
	AIModel       string `mapstructure:"AI_MODEL"`
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`

	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	FanoutLimit     int           `mapstructure:"FANOUT_LIMIT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
}

var defaults = map[string]any{
	"PORT":            "8080",
	"LOG_LEVEL":       "info",
	"ALLOWED_ORIGINS": "http://localhost:3000",

	"NASA_API_KEY":    "DEMO_KEY",
	"NASA_API_URL":    "https://api.nasa.gov",
	"NASA_IMAGES_URL": "https://images-api.nasa.gov",

	"AI_PROVIDER":     "cloudflare",
	"CF_API_URL":      "https://api.cloudflare.com/client/v4",
	"CF_ACCOUNT_ID":   "",
	"CF_API_TOKEN":    "",
	"AI_MODEL":        "@cf/meta/llama-3.1-8b-instruct",
	"OPENAI_API_KEY":  "",
	"OPENAI_BASE_URL": "",
	"OPENAI_MODEL":    "gpt-4o-mini",

	"UPSTREAM_TIMEOUT": "0s",
	"FANOUT_LIMIT":     0,

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"CACHE_TTL":      "1h",
	"SESSION_TTL":    "24h",

	"MONGO_URI": "",
	"MONGO_DB":  "exploring_space",

	"POSTGRES_DSN": "",

	"MINIO_ENDPOINT":   "",
	"MINIO_ACCESS_KEY": "",
	"MINIO_SECRET_KEY": "",
	"MINIO_BUCKET":     "article-snapshots",
	"MINIO_USE_SSL":    false,
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; the environment alone is enough in production.
	_ = v.ReadInConfig()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AIProvider {
	case "cloudflare", "openai":
	default:
		return fmt.Errorf("config: unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("config: UPSTREAM_TIMEOUT must not be negative")
	}
	if c.FanoutLimit < 0 {
		return fmt.Errorf("config: FANOUT_LIMIT must not be negative")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
