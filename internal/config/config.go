package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPollInterval matches the polling period of the web client.
const DefaultPollInterval = 4 * time.Second

const minPollInterval = 500 * time.Millisecond

// Config is the persisted client configuration.
type Config struct {
	Server       string   `toml:"server"`
	Language     string   `toml:"language"`
	PollInterval Duration `toml:"poll_interval"`
	Database     string   `toml:"database"`
	LogFile      string   `toml:"log_file"`
	Notify       bool     `toml:"notify"`
	Style        string   `toml:"style"`
	Source       string   `toml:"-"`
}

// Duration is a time.Duration that reads and writes "4s" style strings.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return parsed, nil
}

// Dir is the per-user state directory (~/.driima).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".driima")
}

// DefaultPath is ~/.driima/config.toml.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		Server:       "http://localhost:8080",
		Language:     "en",
		PollInterval: Duration{DefaultPollInterval},
		Style:        "auto",
	}
	if dir := Dir(); dir != "" {
		cfg.Database = filepath.Join(dir, "state.db")
		cfg.LogFile = filepath.Join(dir, "logs", "driima.log")
	}
	return cfg
}

// Load reads path (or DefaultPath) over the defaults, then applies env overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("DRIIMA_SERVER")); env != "" {
		cfg.Server = env
	}
	if env := strings.TrimSpace(os.Getenv("DRIIMA_LANG")); env != "" {
		cfg.Language = env
	}
}

func (c *Config) normalize() {
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	if c.PollInterval.Duration <= 0 {
		c.PollInterval.Duration = DefaultPollInterval
	}
	if c.PollInterval.Duration < minPollInterval {
		c.PollInterval.Duration = minPollInterval
	}
	if c.Style == "" {
		c.Style = "auto"
	}
}

// Save writes cfg as TOML with owner-only permissions.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("config path is empty and $HOME is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Keys lists the settable keys in display order.
var Keys = []string{"server", "language", "poll_interval", "database", "log_file", "notify", "style"}

// Get returns the string form of a key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "server":
		return c.Server, nil
	case "language":
		return c.Language, nil
	case "poll_interval":
		return c.PollInterval.String(), nil
	case "database":
		return c.Database, nil
	case "log_file":
		return c.LogFile, nil
	case "notify":
		return strconv.FormatBool(c.Notify), nil
	case "style":
		return c.Style, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set assigns a key from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "server":
		c.Server = value
	case "language":
		c.Language = value
	case "poll_interval":
		parsed, err := parseDuration(value)
		if err != nil {
			return err
		}
		c.PollInterval.Duration = parsed
	case "database":
		c.Database = value
	case "log_file":
		c.LogFile = value
	case "notify":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("notify must be true or false: %s", value)
		}
		c.Notify = parsed
	case "style":
		c.Style = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	c.normalize()
	return nil
}

// ApplyKVOverrides applies -c key=value flags. Malformed entries are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) (Config, error) {
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if err := cfg.Set(strings.TrimSpace(parts[0]), parts[1]); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
