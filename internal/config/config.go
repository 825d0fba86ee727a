// Package config loads runtime settings from defaults, an optional config file,
// a .env file and CATALOG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "CATALOG"

type Config struct {
	Env      string         `mapstructure:"env"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// TrustProxyHeaders honours X-Forwarded-For / X-Real-IP for the client address.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	CookieName   string        `mapstructure:"cookie_name"`
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
	// Store is "memory" or "redis".
	Store string `mapstructure:"store"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

type AuthConfig struct {
	BcryptCost int     `mapstructure:"bcrypt_cost"`
	LoginRate  float64 `mapstructure:"login_rate"`
	LoginBurst int     `mapstructure:"login_burst"`
}

type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

const devSecret = "dev-only-session-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.trust_proxy_headers", false)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "root:1234@tcp(localhost:3307)/desarrollo_web")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.migrate_on_start", false)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", "catalog_session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("session.store", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.login_rate", 1.0)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("catalog.page_size", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
}

// Load builds the configuration. path may be empty, in which case only defaults,
// .env and the environment are used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.Session.Secret == "" && cfg.IsDevelopment() {
		cfg.Session.Secret = devSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesDevSecret reports whether sessions are signed with the built-in development secret.
func (c *Config) UsesDevSecret() bool {
	return c.Session.Secret == devSecret
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "mysql", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be mysql or pgx, got %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is required outside development"))
	} else if c.UsesDevSecret() && !c.IsDevelopment() {
		errs = append(errs, errors.New("session.secret must not be the development secret outside development"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, errors.New("catalog.page_size must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
