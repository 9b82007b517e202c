package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Cart backends.
const (
	backendFile   = "file"
	backendBadger = "badger"
	backendRedis  = "redis"
)

// Config holds the CLI configuration, loadable from environment variables
// (STOREFRONT_ prefix) or a YAML file. Command line flags override it.
type Config struct {
	APIURL          string        `default:"http://localhost:8080" env:"API_URL" yaml:"api_url"`
	AdminKey        string        `env:"ADMIN_KEY" yaml:"admin_key"`
	CartBackend     string        `default:"file" env:"CART_BACKEND" yaml:"cart_backend"`
	CartDir         string        `env:"CART_DIR" yaml:"cart_dir"`
	CartKey         string        `default:"cart" env:"CART_KEY" yaml:"cart_key"`
	RedisAddr       string        `default:"localhost:6379" env:"REDIS_ADDR" yaml:"redis_addr"`
	RedisPassword   string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB         int           `env:"REDIS_DB" yaml:"redis_db"`
	RedisPrefix     string        `default:"storefront:" env:"REDIS_PREFIX" yaml:"redis_prefix"`
	NotificationTTL time.Duration `default:"2s" env:"NOTIFICATION_TTL" yaml:"notification_ttl"`
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(dir, "storefront")
}

func loadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		SkipFlags: true,
		Files:     []string{"storefront.yaml", filepath.Join(configDir(), "config.yaml")},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if cfg.CartDir == "" {
		cfg.CartDir = configDir()
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CartBackend {
	case backendFile, backendBadger, backendRedis:
		return nil
	default:
		return errors.Errorf("unknown cart backend %q (want file, badger or redis)", c.CartBackend)
	}
}
