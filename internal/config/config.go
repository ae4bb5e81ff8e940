package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
	"gopkg.in/yaml.v2"
)

const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultRequestTimeout = 10 * time.Second
	DefaultRateLimit      = 5.0
	DefaultRateBurst      = 10
	DefaultStorageDriver  = "badger"
	DefaultBadgerPath     = "/tmp/booking-client"
)

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Storage struct {
	Driver     string              `yaml:"driver"` // badger, redis or memory
	BadgerPath string              `yaml:"badger_path"`
	Redis      storage.RedisConfig `yaml:"redis"`
}

type Bot struct {
	Token string `yaml:"token"`
}

type Config struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      RateLimit     `yaml:"rate_limit"`
	Storage        Storage       `yaml:"storage"`
	Bot            Bot           `yaml:"bot"`
}

func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		RequestTimeout: DefaultRequestTimeout,
		RateLimit:      RateLimit{RPS: DefaultRateLimit, Burst: DefaultRateBurst},
		Storage: Storage{
			Driver:     DefaultStorageDriver,
			BadgerPath: DefaultBadgerPath,
			Redis:      storage.DefaultRedisConfig(),
		},
	}
}

// Load reads filename over the defaults and then applies environment overrides.
// An empty filename skips the file.
func Load(filename string) (*Config, error) {
	config := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("API_URL", c.APIURL)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.RateLimit.RPS = getEnvFloat("RATE_LIMIT_RPS", c.RateLimit.RPS)
	c.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.BadgerPath = getEnv("BADGER_PATH", c.Storage.BadgerPath)
	c.Storage.Redis.Host = getEnv("REDIS_HOST", c.Storage.Redis.Host)
	c.Storage.Redis.Port = getEnv("REDIS_PORT", c.Storage.Redis.Port)
	c.Storage.Redis.Password = getEnv("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getEnvInt("REDIS_DB", c.Storage.Redis.DB)
	c.Bot.Token = getEnv("BOT_TOKEN", c.Bot.Token)
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1 when rate_limit.rps is set")
	}
	switch c.Storage.Driver {
	case "badger", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	return nil
}

// OpenStorage opens the configured key-value backend
func (c *Config) OpenStorage() (storage.KV, error) {
	switch c.Storage.Driver {
	case "redis":
		return storage.NewRedisKV(c.Storage.Redis)
	case "memory":
		return storage.NewMemoryKV(), nil
	default:
		return storage.OpenBadger(c.Storage.BadgerPath)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
