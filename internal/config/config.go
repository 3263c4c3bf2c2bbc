package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string        `mapstructure:"exam_addr"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	PoolSize        int           `mapstructure:"mongo_pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"mongo_connect_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PingInterval    time.Duration `mapstructure:"db_ping_interval"`
	BodyLimit       int64         `mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	GelfAddr        string        `mapstructure:"gelf_addr"`
}

var defaults = map[string]any{
	"exam_addr":             ":8080",
	"mongo_uri":             "mongodb://127.0.0.1:27017",
	"mongo_database":        "examapi",
	"mongo_pool_size":       10,
	"mongo_connect_timeout": 5 * time.Second,
	"request_timeout":       10 * time.Second,
	"db_ping_interval":      10 * time.Second,
	"body_limit":            100 << 10,
	"shutdown_timeout":      10 * time.Second,
	"log_level":             "info",
	"gelf_addr":             "",
}

// Load reads configuration from the environment and, when path is not empty,
// from a YAML file. Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
		// Unmarshal only sees environment values for bound keys.
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("EXAM_ADDR must not be empty"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI must not be empty"))
	}
	if c.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGO_DATABASE must not be empty"))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("MONGO_POOL_SIZE must be positive, got %d", c.PoolSize))
	}
	if c.BodyLimit <= 0 {
		errs = append(errs, fmt.Errorf("BODY_LIMIT must be positive, got %d", c.BodyLimit))
	}
	for name, d := range map[string]time.Duration{
		"MONGO_CONNECT_TIMEOUT": c.ConnectTimeout,
		"REQUEST_TIMEOUT":       c.RequestTimeout,
		"DB_PING_INTERVAL":      c.PingInterval,
		"SHUTDOWN_TIMEOUT":      c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
