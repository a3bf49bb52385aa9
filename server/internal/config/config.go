package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8080
	DefaultSnapshotTTL       = 15 * time.Minute
	DefaultBroadcastInterval = 5 * time.Second
	DefaultSchedule          = "0 * * * *" // hourly recompute
)

// Config is the top-level ceimd configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and metrics
	// endpoint listen on.
	HTTPPort int `yaml:"http_port"`

	// Snapshot controls result retention in the live store.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// current report to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// SnapshotConfig controls live-store retention.
type SnapshotConfig struct {
	// TTL is how long a computed result stays listable without a refresh.
	TTL time.Duration `yaml:"ttl"`
}

// PipelineConfig describes the recompute pipeline inputs and triggers.
type PipelineConfig struct {
	// SeriesPath is the time-series shard the pipeline recomputes from.
	SeriesPath string `yaml:"series_path"`

	// StationShard optionally points at the station-metadata shard.
	StationShard string `yaml:"station_shard"`

	// Schedule is a cron expression for periodic recomputes.
	Schedule string `yaml:"schedule"`

	// Watch additionally recomputes whenever the series shard is written.
	Watch bool `yaml:"watch"`
}

// StorageConfig configures the optional SQLite result history.
type StorageConfig struct {
	// HistoryPath is the SQLite database file. Empty disables history.
	HistoryPath string `yaml:"history_path"`
}

// AlertsConfig holds all alerting rules and webhook targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "kn > 1e6" or "mass_load > 5e8".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig is one alert delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook
	// URL, so endpoints never land in config files.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
// Returns empty string if URLEnv is unset or the variable is not found.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads, parses and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
			Snapshot: SnapshotConfig{
				TTL: DefaultSnapshotTTL,
			},
		},
		Pipeline: PipelineConfig{
			Schedule: DefaultSchedule,
			Watch:    true,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.Snapshot.TTL <= 0 {
		return fmt.Errorf("server.snapshot.ttl must be positive")
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if cfg.Pipeline.SeriesPath == "" {
		return fmt.Errorf("pipeline.series_path is required")
	}
	if cfg.Pipeline.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Pipeline.Schedule); err != nil {
			return fmt.Errorf("pipeline.schedule %q: %w", cfg.Pipeline.Schedule, err)
		}
	}
	for i, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alerts.rules[%d].name is required", i)
		}
		if r.Condition == "" {
			return fmt.Errorf("alerts.rules[%d].condition is required", i)
		}
	}
	for i, w := range cfg.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d].type %q is not one of slack|teams|http", i, w.Type)
		}
	}
	return nil
}
