// Package config loads service configuration from configs/config.yml and
// POWER_WIZARD_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Token     TokenConfig     `mapstructure:"token"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Deploy    DeployConfig    `mapstructure:"deploy"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Funnel    FunnelConfig    `mapstructure:"funnel"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig selects the zap level and encoder ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig chooses where wizard sessions live and how long they last.
type SessionConfig struct {
	Store         string        `mapstructure:"store"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TokenConfig signs session tokens.
type TokenConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig is per client IP. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DeployConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BaseURL      string        `mapstructure:"base_url"`
	BuildAfter   time.Duration `mapstructure:"build_after"`
	ReadyAfter   time.Duration `mapstructure:"ready_after"`
}

// CatalogConfig points at a plans YAML file; empty uses the built-in catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// FunnelConfig guards the funnel dashboard routes. An empty key closes them.
type FunnelConfig struct {
	APIKey string `mapstructure:"api_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweep_interval", time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("token.secret", "change-me")
	v.SetDefault("token.ttl", 2*time.Hour)
	v.SetDefault("ratelimit.rps", 20.0)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("deploy.poll_interval", time.Second)
	v.SetDefault("deploy.base_url", "https://sites.example.com")
	v.SetDefault("deploy.build_after", 2*time.Second)
	v.SetDefault("deploy.ready_after", 6*time.Second)
	v.SetDefault("catalog.path", "")
	v.SetDefault("funnel.api_key", "")
}

// Load reads configuration from file and environment. An empty path looks for
// config.yml under ./configs and the working directory; a missing file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("POWER_WIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return eris.Errorf("config: unknown session store %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return eris.New("config: session.ttl must be positive")
	}
	if c.Session.Store == SessionStoreMemory && c.Session.SweepInterval <= 0 {
		return eris.New("config: session.sweep_interval must be positive")
	}
	if c.Token.Secret == "" {
		return eris.New("config: token.secret is required")
	}
	if c.Deploy.ReadyAfter < c.Deploy.BuildAfter {
		return eris.New("config: deploy.ready_after must not be before deploy.build_after")
	}
	return nil
}
