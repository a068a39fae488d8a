package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8081"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Locale   string `env:"CONSOLE_LOCALE, default=en"`

	API     APIConfig
	Routes  RoutesConfig
	Session SessionConfig
	Redis   RedisConfig
	Login   LoginConfig
}

// APIConfig points the console at the backend REST API.
type APIConfig struct {
	BaseURL            string        `env:"API_BASE_URL,             default=http://localhost:8080/api"`
	Timeout            time.Duration `env:"API_TIMEOUT,              default=10s"`
	BreakerMaxFailures uint32        `env:"API_BREAKER_MAX_FAILURES, default=5"`
	BreakerOpenTimeout time.Duration `env:"API_BREAKER_OPEN_TIMEOUT, default=30s"`
}

type RoutesConfig struct {
	LoginPath  string   `env:"LOGIN_PATH,   default=/login"`
	HomePath   string   `env:"HOME_PATH,    default=/products"`
	DeniedPath string   `env:"DENIED_PATH"`
	AdminRoles []string `env:"ADMIN_ROLES,  default=ROLE_ADMIN"`
	// Editors may change the catalogue.
	EditorRoles []string `env:"EDITOR_ROLES, default=ROLE_ADMIN,ROLE_MODERATOR"`
}

type SessionConfig struct {
	// Storage is "memory" or "redis".
	Storage   string `env:"SESSION_STORAGE,    default=memory"`
	KeyPrefix string `env:"SESSION_KEY_PREFIX, default=cms-console:"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	RateLimit float64 `env:"LOGIN_RATE_LIMIT, default=1"`
	RateBurst int     `env:"LOGIN_RATE_BURST, default=5"`
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	switch c.Session.Storage {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORAGE must be memory or redis, got %q", c.Session.Storage)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.pointsAtSelf() {
		return fmt.Errorf("API_BASE_URL %s points at the console itself (PORT=%s)", c.API.BaseURL, c.Port)
	}
	if c.Routes.LoginPath == "" || c.Routes.HomePath == "" {
		return fmt.Errorf("LOGIN_PATH and HOME_PATH must not be empty")
	}
	return nil
}

func (c *Config) pointsAtSelf() bool {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Port() != c.Port {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
