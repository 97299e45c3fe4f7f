package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration. Values come from an optional
// YAML file and can be overridden by environment variables, so container
// deployments need no file at all.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	NATS    NATSConfig    `yaml:"nats"`
	Banner  BannerConfig  `yaml:"banner"`
	Session SessionConfig `yaml:"session"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"` // "" or "development" enables embedded infra
}

type DBConfig struct {
	Driver      string `yaml:"driver"` // memory, sqlite, postgres
	SQLiteFile  string `yaml:"sqlite_file"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// BannerConfig controls the transient notification schedule. Period is how
// often the banner reappears, DisplayDuration how long each occurrence
// stays visible. Period must be at least DisplayDuration, otherwise a
// cycle's hide could land after the next cycle's show.
type BannerConfig struct {
	Period          time.Duration `yaml:"period"`
	DisplayDuration time.Duration `yaml:"display_duration"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"` // idle time before the janitor ends a session
}

// Default returns the development defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "3000",
		},
		DB: DBConfig{
			Driver:     "memory",
			SQLiteFile: "dev.sqlite",
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "match.events",
		},
		Banner: BannerConfig{
			Period:          30 * time.Second,
			DisplayDuration: 5 * time.Second,
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
		},
	}
}

// Load builds the configuration from the optional YAML file at path, then
// applies environment overrides and validates the result. An empty path
// skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.DB.Driver = v
	}
	if v := os.Getenv("SQLITE_FILE"); v != "" {
		c.DB.SQLiteFile = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DB.PostgresDSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT"); v != "" {
		c.NATS.Subject = v
	}
	if v := os.Getenv("BANNER_PERIOD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Banner.Period = d
		}
	}
	if v := os.Getenv("BANNER_DISPLAY_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Banner.DisplayDuration = d
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Session.TTL = d
		}
	}
}

// Validate checks the cross-field constraints
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db driver %q (valid: memory, sqlite, postgres)", c.DB.Driver)
	}
	if c.DB.Driver == "postgres" && c.DB.PostgresDSN == "" {
		return fmt.Errorf("postgres driver requires a DSN (DATABASE_URL)")
	}
	if c.Banner.DisplayDuration <= 0 {
		return fmt.Errorf("banner display duration must be positive")
	}
	if c.Banner.Period < c.Banner.DisplayDuration {
		return fmt.Errorf("banner period %s must be at least the display duration %s",
			c.Banner.Period, c.Banner.DisplayDuration)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}
