package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full process configuration
type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string        `yaml:"storage_path" env:"STORAGE_PATH" env-default:"work-timer.db"`
	Log         LogConfig     `yaml:"log"`
	Backend     BackendConfig `yaml:"backend"`
	Timer       TimerConfig   `yaml:"timer"`
	Catalog     CatalogConfig `yaml:"catalog"`
	Sink        SinkConfig    `yaml:"sink"`
	Server      ServerConfig  `yaml:"server"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8080"`
	APIKey  string `yaml:"api_key" env:"BACKEND_API_KEY"`
	Timeout int    `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10"` // seconds
}

// TimerConfig selects where the timer snapshot is persisted
type TimerConfig struct {
	SnapshotStore string `yaml:"snapshot_store" env:"TIMER_SNAPSHOT_STORE" env-default:"sqlite"` // sqlite, file
	SnapshotPath  string `yaml:"snapshot_path" env:"TIMER_SNAPSHOT_PATH" env-default:"timer-state.json"`
}

type CatalogConfig struct {
	Source string `yaml:"source" env:"CATALOG_SOURCE" env-default:"file"` // file, backend
	Path   string `yaml:"path" env:"CATALOG_PATH" env-default:"config/projects.yaml"`
}

// SinkConfig selects the time-log system of record
type SinkConfig struct {
	Type    string `yaml:"type" env:"SINK_TYPE" env-default:"local"`    // backend, local
	Timeout int    `yaml:"timeout" env:"SINK_TIMEOUT" env-default:"15"` // seconds
}

type ServerConfig struct {
	Port           int      `yaml:"port" env:"SERVER_PORT" env-default:"8765"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// LoadConfig reads the YAML file at path and applies environment overrides
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Timer.SnapshotStore {
	case "sqlite", "file":
	default:
		return fmt.Errorf("invalid timer.snapshot_store %q (want sqlite or file)", c.Timer.SnapshotStore)
	}
	switch c.Catalog.Source {
	case "file", "backend":
	default:
		return fmt.Errorf("invalid catalog.source %q (want file or backend)", c.Catalog.Source)
	}
	switch c.Sink.Type {
	case "local", "backend":
	default:
		return fmt.Errorf("invalid sink.type %q (want local or backend)", c.Sink.Type)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Sink.Timeout <= 0 {
		return fmt.Errorf("sink.timeout must be positive")
	}
	return nil
}
