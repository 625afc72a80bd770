// Package config loads application configuration from an optional YAML file
// with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Scraper struct {
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		MaxRetries     int     `yaml:"max_retries"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	} `yaml:"scraper"`

	AI struct {
		APIKey            string        `yaml:"api_key"`
		Model             string        `yaml:"model"`
		RateLimitPerHour  int           `yaml:"rate_limit_per_hour"`
		CacheTTL          time.Duration `yaml:"cache_ttl"`
		BatchSize         int           `yaml:"batch_size"`
		BatchDelaySeconds int           `yaml:"batch_delay_seconds"`
	} `yaml:"ai"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Discovery struct {
		MaxParallelSources int           `yaml:"max_parallel_sources"`
		TopResults         int           `yaml:"top_results"`
		Workers            int           `yaml:"workers"`
		QueueSize          int           `yaml:"queue_size"`
		RefreshInterval    time.Duration `yaml:"refresh_interval"`
	} `yaml:"discovery"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Load reads the optional YAML file at configPath, then applies environment
// overrides. Missing file is not an error: env-only deployments are valid.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config.loadFromEnv()
	return config, nil
}

func defaults() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 60 * time.Second

	config.Scraper.TimeoutSeconds = 30
	config.Scraper.MaxRetries = 3
	config.Scraper.RateLimitRPS = 1.0

	config.AI.Model = "gemini-2.5-flash"
	config.AI.RateLimitPerHour = 1000
	config.AI.CacheTTL = 168 * time.Hour
	config.AI.BatchSize = 10
	config.AI.BatchDelaySeconds = 2

	config.Discovery.MaxParallelSources = 5
	config.Discovery.TopResults = 30
	config.Discovery.Workers = 4
	config.Discovery.QueueSize = 64
	config.Discovery.RefreshInterval = 6 * time.Hour

	config.Logging.Level = "info"

	return config
}

func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if limit := os.Getenv("AI_RATE_LIMIT_PER_HOUR"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			c.AI.RateLimitPerHour = n
		}
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.Redis.URL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
