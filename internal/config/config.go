package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Redis    RedisConfig    `koanf:"redis"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Log      LogConfig      `koanf:"log"`
	Dev      DevConfig      `koanf:"dev"`
}

type ServerConfig struct {
	Addr        string `koanf:"addr"`
	CORSOrigins string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	// URL empty means the in-memory stores are used.
	URL string `koanf:"url"`
}

type AuthConfig struct {
	JWTSecret          string        `koanf:"jwt_secret"`
	BcryptCost         int           `koanf:"bcrypt_cost"`
	AccessTokenTTL     time.Duration `koanf:"access_token_ttl"`
	ResetTokenTTL      time.Duration `koanf:"reset_token_ttl"`
	ResetURLBase       string        `koanf:"reset_url_base"`
	ResetRatePerMinute int           `koanf:"reset_rate_per_minute"`
}

type RedisConfig struct {
	URL      string        `koanf:"url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type DevConfig struct {
	AllowResetDestinations bool `koanf:"allow_reset_destinations"`
}

// envKeys maps the environment variables the service understands onto
// koanf paths. Anything not listed is ignored.
var envKeys = map[string]string{
	"addr":                     "server.addr",
	"port":                     "server.addr",
	"cors_origins":             "server.cors_origins",
	"database_url":             "database.url",
	"jwt_secret_key":           "auth.jwt_secret",
	"jwt_secret":               "auth.jwt_secret",
	"bcrypt_cost":              "auth.bcrypt_cost",
	"access_token_ttl":         "auth.access_token_ttl",
	"reset_token_ttl":          "auth.reset_token_ttl",
	"reset_url_base":           "auth.reset_url_base",
	"reset_rate_per_minute":    "auth.reset_rate_per_minute",
	"redis_url":                "redis.url",
	"cache_ttl":                "redis.cache_ttl",
	"smtp_host":                "smtp.host",
	"smtp_port":                "smtp.port",
	"user_email":               "smtp.username",
	"user_password":            "smtp.password",
	"smtp_from":                "smtp.from",
	"log_level":                "log.level",
	"log_format":               "log.format",
	"allow_reset_destinations": "dev.allow_reset_destinations",
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: "*",
		},
		Auth: AuthConfig{
			BcryptCost:         10,
			AccessTokenTTL:     2 * time.Hour,
			ResetTokenTTL:      15 * time.Minute,
			ResetURLBase:       "http://localhost:8000/api/auth/reset-password",
			ResetRatePerMinute: 3,
		},
		Redis: RedisConfig{
			CacheTTL: 5 * time.Minute,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads .env (when present), applies defaults and then environment
// overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func envTransformFunc(key string) string {
	return envKeys[strings.ToLower(key)]
}

func (c *Config) normalize() {
	// PORT=8000 style values are accepted alongside ":8000".
	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		c.Server.Addr = ":" + c.Server.Addr
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.ResetRatePerMinute <= 0 {
		errs = append(errs, errors.New("RESET_RATE_PER_MINUTE must be positive"))
	}
	if c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// UseMemoryStores reports whether the service runs without Postgres.
func (c *Config) UseMemoryStores() bool {
	return c.Database.URL == ""
}
