package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
	// RequestTimeout bounds a single extraction request end to end.
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT" default:"4m"`
}

// ExtractorConfig holds extraction pipeline configuration.
type ExtractorConfig struct {
	Proxy            string        `yaml:"proxy" envconfig:"DOUYIN_PROXY"`
	NavTimeout       time.Duration `yaml:"nav_timeout" envconfig:"DOUYIN_NAV_TIMEOUT" default:"30s"`
	InterceptTimeout time.Duration `yaml:"intercept_timeout" envconfig:"DOUYIN_INTERCEPT_TIMEOUT" default:"12s"`
	MaxEmptyPages    int           `yaml:"max_empty_pages" envconfig:"DOUYIN_MAX_EMPTY_PAGES" default:"3"`
	MediaDelay       time.Duration `yaml:"media_delay" envconfig:"DOUYIN_MEDIA_DELAY" default:"1s"`
	ListDelay        time.Duration `yaml:"list_delay" envconfig:"DOUYIN_LIST_DELAY" default:"2s"`
}

// loadConfig reads configuration from an optional YAML file, then lets
// environment variables override it.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}
