package application

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Every field has a workable default
// so the engine runs with no config file at all; environment variables
// override secrets and connection targets.
type Config struct {
	HTTP struct {
		Host         string   `yaml:"host"`
		Port         int      `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"http"`

	// APIKey guards the admin endpoints. Empty disables them.
	APIKey string `yaml:"api_key"`

	RulesFile     string `yaml:"rules_file"`
	GaugesFile    string `yaml:"gauges_file"`
	OutbreaksFile string `yaml:"outbreaks_file"`
	NASSKey       string `yaml:"nass_api_key"`

	Fetch struct {
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RPS            float64 `yaml:"rps"`
		Burst          int     `yaml:"burst"`
	} `yaml:"fetch"`

	Redis struct {
		Addr              string `yaml:"addr"`
		DB                int    `yaml:"db"`
		DefaultTTLSeconds int    `yaml:"default_ttl_seconds"`
	} `yaml:"redis"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.HTTP.Host = "127.0.0.1"
	c.HTTP.Port = 8080
	c.HTTP.AllowOrigins = []string{"http://localhost:3000"}
	c.RulesFile = "config/actions.yaml"
	c.Fetch.TimeoutSeconds = 30
	c.Fetch.RPS = 4
	c.Fetch.Burst = 4
	c.Redis.DefaultTTLSeconds = 300
	c.Kafka.Topic = "fsri.scored"
	return c
}

// LoadConfig reads configuration from a YAML file, then applies env
// overrides. An empty path returns defaults plus env.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FSRI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("NASS_API_KEY"); v != "" {
		c.NASSKey = v
	}
	if v := os.Getenv("PG_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers := make([]string, 0, 2)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
}

// FetchTimeout returns the outbound request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RedisTTL returns the default cache TTL.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.DefaultTTLSeconds) * time.Second
}
