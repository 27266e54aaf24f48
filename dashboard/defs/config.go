package defs

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://exam-vitalz-backend-8267f8929b82.herokuapp.com"
	DefaultAddress = ":4242"
	DefaultTimeout = 10 * time.Second
)

// Date layouts used on the wire.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Config struct {
	Vitalz   VitalzConfig `yaml:"vitalz"`
	HTTP     HTTPConfig   `yaml:"http"`
	Timezone string       `yaml:"timezone"`
	Logger   *zap.Logger  `yaml:"-"`
}

type VitalzConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

// LoadConfig reads a yaml config file, filling in defaults for missing keys.
func LoadConfig(file string) (Config, error) {
	config := Config{}

	b, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("unable to read config file: %w", err)
	}

	if err = yaml.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("unable to parse config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// DefaultConfig is the config used when no file is present.
func DefaultConfig() Config {
	config := Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Vitalz.BaseURL == "" {
		c.Vitalz.BaseURL = DefaultBaseURL
	}
	if c.Vitalz.Timeout <= 0 {
		c.Vitalz.Timeout = DefaultTimeout
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = DefaultAddress
	}
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unable to load timezone: %w", err)
	}
	return loc, nil
}
