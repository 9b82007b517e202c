package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the catalog API configuration, loadable from environment
// variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DataDir      string `default:"data" usage:"Directory of the JSON catalog tables" flag:"data-dir"`
	DatabaseURL  string `usage:"PostgreSQL connection URL; selects the postgres backend (SHOP_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	AdminKey     string `usage:"Shared secret expected in X-Admin-Key (SHOP_ADMIN_KEY or ADMIN_KEY)" flag:"admin-key"`
	NATSURL      string `usage:"NATS server URL for catalog change events; empty disables publishing" flag:"nats-url"`
	MaxBodyBytes int64  `default:"1048576" usage:"Maximum admin request body size" flag:"max-body-bytes"`
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Time to refill Max tokens"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// UsePostgres reports whether the catalog lives in PostgreSQL rather than
// in JSON files.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.AdminKey) == "" {
		return errors.New("admin key is required: set SHOP_ADMIN_KEY or ADMIN_KEY")
	}
	if !c.UsePostgres() && c.DataDir == "" {
		return errors.New("data dir is required when no database URL is set")
	}
	return nil
}

// applyPlatformDefaults maps the unprefixed variables set by hosting
// platforms (PORT, DATABASE_URL) and the legacy ADMIN_KEY.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.AdminKey == "" {
		c.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
