package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Environment is set from the -env flag, not from the TOML file
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// rate limits
	LoginRateLimitAllowedPerMin   int `toml:"login_rate_limit_allowed_per_min"`
	WorkoutRateLimitAllowedPerMin int `toml:"workout_rate_limit_allowed_per_min"`

	// program catalog cache
	CatalogCacheSizeMB     int `toml:"catalog_cache_size_mb"`
	CatalogCacheTTLMinutes int `toml:"catalog_cache_ttl_minutes"`

	// progression
	SplitReadyLevel int `toml:"split_ready_level"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	case "ddev", "dockerdev":
		return t.DockerDev, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config file and returns the section for the given env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config file %s has no section for env: %s", path, env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env %s: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 5
	}
	if c.WorkoutRateLimitAllowedPerMin <= 0 {
		c.WorkoutRateLimitAllowedPerMin = 30
	}
	if c.CatalogCacheSizeMB <= 0 {
		c.CatalogCacheSizeMB = 10
	}
	if c.CatalogCacheTTLMinutes <= 0 {
		c.CatalogCacheTTLMinutes = 5
	}
	if c.SplitReadyLevel <= 0 {
		c.SplitReadyLevel = 10
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port not set")
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("postgres host not set")
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("postgres db name not set")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("redis host not set")
	}
	return nil
}
