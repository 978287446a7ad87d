package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Request   RequestConfig   `yaml:"request"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Server    ServerConfig    `yaml:"server"`
}

// SourceConfig points at the processor that serves device listings and
// state history pages.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url"`
	DeviceLimit int    `yaml:"device_limit"`
	PageLimit   int    `yaml:"page_limit"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
}

// AggregateConfig holds the track reconstruction pipeline settings.
type AggregateConfig struct {
	MaxJump           Distance `yaml:"max_jump"`           // split threshold between neighbors
	RDPEpsilon        float64  `yaml:"rdp_epsilon"`        // simplifier tolerance, in coordinate degrees
	Smoother          string   `yaml:"smoother"`           // "chaikin", "window"
	ChaikinIterations int      `yaml:"chaikin_iterations"` // subdivision passes
	WindowSize        int      `yaml:"window_size"`        // centered averaging window
	MinSegmentPoints  int      `yaml:"min_segment_points"` // segments shorter than this are dropped
	IncludeStates     bool     `yaml:"include_states"`     // attach pruned state snapshots to vertices
	FanOut            int      `yaml:"fan_out"`            // concurrent device pipelines
	OnFetchError      string   `yaml:"on_fetch_error"`     // "emit-partial", "skip-write"
	CacheTTL          Duration `yaml:"cache_ttl"`          // history page cache retention
}

// OutputConfig holds track document output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP server settings for the republisher.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// Fetch-failure policies. emit-partial degrades the device to whatever
// was fetched before the error; skip-write aborts the device and leaves
// its previous document in place.
const (
	OnFetchErrorEmitPartial = "emit-partial"
	OnFetchErrorSkipWrite   = "skip-write"
)

// Smoothing strategies.
const (
	SmootherChaikin = "chaikin"
	SmootherWindow  = "window"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:     "http://localhost:8001",
			DeviceLimit: 100,
			PageLimit:   500,
		},
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(60 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
			},
		},
		Aggregate: AggregateConfig{
			MaxJump:           Distance(5000), // 5km
			RDPEpsilon:        0.00008,
			Smoother:          SmootherChaikin,
			ChaikinIterations: 4,
			WindowSize:        11,
			MinSegmentPoints:  3,
			IncludeStates:     true,
			FanOut:            4,
			OnFetchError:      OnFetchErrorEmitPartial,
			CacheTTL:          Duration(14 * Day),
		},
		Output: OutputConfig{
			Dir: "./data/tracks",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/hoardmap.db",
		},
		Server: ServerConfig{
			Address: "localhost:8000",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
// Environment variables override the source endpoint and output directory
// so containerized runs need no file edits.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		// If file does not exist, save defaults
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	if v := os.Getenv("HOARDMAP_SOURCE_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("HOARDMAP_DATA_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Aggregate.Smoother {
	case SmootherChaikin, SmootherWindow:
	default:
		return fmt.Errorf("invalid smoother %q: must be %q or %q",
			c.Aggregate.Smoother, SmootherChaikin, SmootherWindow)
	}

	switch c.Aggregate.OnFetchError {
	case OnFetchErrorEmitPartial, OnFetchErrorSkipWrite:
	default:
		return fmt.Errorf("invalid on_fetch_error %q: must be %q or %q",
			c.Aggregate.OnFetchError, OnFetchErrorEmitPartial, OnFetchErrorSkipWrite)
	}

	if c.Aggregate.MinSegmentPoints < 2 {
		return fmt.Errorf("min_segment_points must be at least 2, got %d", c.Aggregate.MinSegmentPoints)
	}
	if c.Aggregate.MaxJump <= 0 {
		return fmt.Errorf("max_jump must be positive")
	}
	if c.Aggregate.FanOut < 1 {
		return fmt.Errorf("fan_out must be at least 1, got %d", c.Aggregate.FanOut)
	}
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source base_url must be set")
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# hoardmap Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
