package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cache.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAREHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"WAREHOUSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WAREHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAREHOUSE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"WAREHOUSE_CORS_ORIGINS" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the console at the inventory REST API.
type BackendConfig struct {
	BaseURL string `envconfig:"WAREHOUSE_API_BASE_URL" required:"true"`
	// Timeout of zero leaves requests bounded only by the caller's context.
	Timeout time.Duration `envconfig:"WAREHOUSE_API_TIMEOUT" default:"0s"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", EnvAPIBaseURL, b.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host", EnvAPIBaseURL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("%s cannot be negative", EnvAPITimeout)
	}
	return nil
}

type CacheConfig struct {
	Driver string `envconfig:"WAREHOUSE_CACHE_DRIVER" default:"memory"`
	// StaleAfter of zero keeps cached values valid until they are invalidated.
	StaleAfter time.Duration `envconfig:"WAREHOUSE_CACHE_STALE_AFTER" default:"0s"`
}

func (c CacheConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), CacheDriverRedis)
}

func (c CacheConfig) validate(redis RedisConfig) error {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	switch driver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("either %s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvCacheDriver, CacheDriverRedis)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCacheDriver, c.Driver)
	}
	if c.StaleAfter < 0 {
		return fmt.Errorf("%s cannot be negative", EnvCacheStaleAfter)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WAREHOUSE_REDIS_URL"`
	Address      string        `envconfig:"WAREHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"WAREHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAREHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAREHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAREHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAREHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAREHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAREHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"WAREHOUSE_METRICS_ENABLED" default:"true"`
}
