package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sync modes
const (
	SyncBlocking = "blocking"
	SyncAsync    = "async"
)

// Config represents the application configuration
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Control ControlConfig `yaml:"control"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	Keymap  KeymapConfig  `yaml:"keymap"`
}

// DeviceConfig contains key light connection settings
type DeviceConfig struct {
	Address      string   `yaml:"address"`
	Port         int      `yaml:"port"`          // Fixed by the device, only overridden in tests
	FetchTimeout Duration `yaml:"fetch_timeout"` // Startup fetch timeout (default: 5s)
	PushTimeout  Duration `yaml:"push_timeout"`  // Per-push timeout (default: 1s)
}

// ControlConfig contains input handling settings
type ControlConfig struct {
	Step         int     `yaml:"step"`           // Default adjustment step (default: 10)
	FineStep     int     `yaml:"fine_step"`      // Step with shift held (default: 1)
	SyncMode     string  `yaml:"sync_mode"`      // blocking | async (default: blocking)
	RateLimitRPS float64 `yaml:"rate_limit_rps"` // Async pushes per second (default: 10)
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"use_json"`
	File    string `yaml:"file"` // "-" means stderr
}

// HistoryConfig contains sync ledger settings
type HistoryConfig struct {
	Path      string   `yaml:"path"`      // SQLite path, empty disables the ledger
	Retention Duration `yaml:"retention"` // Entries older than this are dropped at startup (default: 720h)
}

// KeymapConfig contains key binding settings
type KeymapConfig struct {
	Script string `yaml:"script"` // Optional Lua script with extra bindings
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "keylight.log"
	}

	// Device defaults
	if cfg.Device.Port == 0 {
		cfg.Device.Port = 9123
	}
	if cfg.Device.FetchTimeout == 0 {
		cfg.Device.FetchTimeout = Duration(5 * time.Second)
	}
	if cfg.Device.PushTimeout == 0 {
		cfg.Device.PushTimeout = Duration(1 * time.Second)
	}

	// History defaults
	if cfg.History.Retention == 0 {
		cfg.History.Retention = Duration(30 * 24 * time.Hour)
	}

	// Control defaults
	if cfg.Control.Step == 0 {
		cfg.Control.Step = 10
	}
	if cfg.Control.FineStep == 0 {
		cfg.Control.FineStep = 1
	}
	if cfg.Control.SyncMode == "" {
		cfg.Control.SyncMode = SyncBlocking
	}
	if cfg.Control.RateLimitRPS == 0 {
		cfg.Control.RateLimitRPS = 10.0
	}
}

// Validate checks the settings that have no sensible default
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Device.Address) == "" {
		return fmt.Errorf("device address is required (use --ip)")
	}
	if strings.Contains(cfg.Device.Address, "/") {
		return fmt.Errorf("device address %q must be a host or IP, not a URL", cfg.Device.Address)
	}
	if cfg.Control.Step <= 0 || cfg.Control.FineStep <= 0 {
		return fmt.Errorf("control steps must be positive (step=%d, fine_step=%d)", cfg.Control.Step, cfg.Control.FineStep)
	}
	if cfg.History.Retention < 0 {
		return fmt.Errorf("history.retention must not be negative")
	}
	if cfg.Control.RateLimitRPS < 0 {
		return fmt.Errorf("control.rate_limit_rps must not be negative")
	}
	switch cfg.Control.SyncMode {
	case SyncBlocking, SyncAsync:
	default:
		return fmt.Errorf("unknown control.sync_mode %q (want %q or %q)", cfg.Control.SyncMode, SyncBlocking, SyncAsync)
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
