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
	"gopkg.in/yaml.v3"
)

// Environment variables read at startup
const (
	EnvAppID    = "ALGOLIA_APP_ID"
	EnvAPIKey   = "ALGOLIA_API_KEY"
	EnvIndex    = "ALGOLIA_INDEX"
	EnvHost     = "MOVIESEARCH_HOST"
	EnvDebounce = "MOVIESEARCH_DEBOUNCE"
)

// Defaults
const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultPlaceholders   = 3
	DefaultHitsPerPage    = 20
	DefaultTitleExpr      = ".title"
	DefaultRequestTimeout = 10 * time.Second
	DefaultAnimationFrame = 40 * time.Millisecond
	DefaultLogFile        = "moviesearch.log"
	DefaultLogLevel       = "info"
)

// Duration is a time.Duration that decodes from strings like "300ms"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration
type Config struct {
	AppID          string      `toml:"app_id" yaml:"app_id"`
	APIKey         string      `toml:"api_key" yaml:"api_key"`
	IndexName      string      `toml:"index" yaml:"index"`
	Host           string      `toml:"host" yaml:"host"` // empty means the hosted default for AppID
	HitsPerPage    int         `toml:"hits_per_page" yaml:"hits_per_page"`
	TitleExpr      string      `toml:"title_expr" yaml:"title_expr"`
	RequestTimeout Duration    `toml:"request_timeout" yaml:"request_timeout"`
	MetricsAddr    string      `toml:"metrics_addr" yaml:"metrics_addr"`
	UISettings     UISettings  `toml:"ui" yaml:"ui"`
	Log            LogSettings `toml:"log" yaml:"log"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Debounce       Duration `toml:"debounce" yaml:"debounce"`
	Placeholders   int      `toml:"placeholders" yaml:"placeholders"`
	AnimationFrame Duration `toml:"animation_frame" yaml:"animation_frame"`
}

// LogSettings controls the log file
type LogSettings struct {
	File  string `toml:"file" yaml:"file"`
	Level string `toml:"level" yaml:"level"`
}

// ConfigService handles configuration loading
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewConfigService creates a config service reading the default config file
// and the process environment
func NewConfigService() ConfigService {
	return NewConfigServiceWithEnv(DefaultPath(), os.LookupEnv)
}

// NewConfigServiceWithEnv creates a config service with an explicit file path
// and environment lookup
func NewConfigServiceWithEnv(path string, lookup func(string) (string, bool)) ConfigService {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &configService{filePath: path, lookup: lookup}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "moviesearch", "config.toml")
}

// Path returns the file the service reads by default
func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the default config file if it exists, then applies the
// environment and defaults. A missing file is not an error.
func (cs *configService) Load() (*Config, error) {
	cfg := &Config{}
	if cs.filePath != "" {
		if _, err := os.Stat(cs.filePath); err == nil {
			loaded, err := decodeFile(cs.filePath)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if err := cs.applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path; the file must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := cs.applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// decodeFile picks the decoder from the file extension
func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnv overrides file values with any environment variables that are set
func (cs *configService) applyEnv(cfg *Config) error {
	if v, ok := cs.lookup(EnvAppID); ok && v != "" {
		cfg.AppID = v
	}
	if v, ok := cs.lookup(EnvAPIKey); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := cs.lookup(EnvIndex); ok && v != "" {
		cfg.IndexName = v
	}
	if v, ok := cs.lookup(EnvHost); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := cs.lookup(EnvDebounce); ok && v != "" {
		d, err := ParseDebounce(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebounce, err)
		}
		cfg.UISettings.Debounce = Duration(d)
	}
	return nil
}

// ParseDebounce accepts a Go duration or a bare number of milliseconds
func ParseDebounce(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

// ApplyDefaults fills empty fields with default values
func (c *Config) ApplyDefaults() {
	if c.HitsPerPage == 0 {
		c.HitsPerPage = DefaultHitsPerPage
	}
	if c.TitleExpr == "" {
		c.TitleExpr = DefaultTitleExpr
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if c.UISettings.Debounce == 0 {
		c.UISettings.Debounce = Duration(DefaultDebounce)
	}
	if c.UISettings.Placeholders == 0 {
		c.UISettings.Placeholders = DefaultPlaceholders
	}
	if c.UISettings.AnimationFrame == 0 {
		c.UISettings.AnimationFrame = Duration(DefaultAnimationFrame)
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var errs []error
	if c.AppID == "" {
		errs = append(errs, fmt.Errorf("application id is required (%s)", EnvAppID))
	}
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("api key is required (%s or keyring)", EnvAPIKey))
	}
	if c.IndexName == "" {
		errs = append(errs, fmt.Errorf("index name is required (%s)", EnvIndex))
	}
	if c.HitsPerPage < 1 {
		errs = append(errs, errors.New("hits_per_page must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.UISettings.Debounce <= 0 {
		errs = append(errs, errors.New("ui.debounce must be positive"))
	}
	if c.UISettings.Placeholders < 1 {
		errs = append(errs, errors.New("ui.placeholders must be at least 1"))
	}
	if c.UISettings.AnimationFrame <= 0 {
		errs = append(errs, errors.New("ui.animation_frame must be positive"))
	}
	return errors.Join(errs...)
}

// SearchHost returns the backend base URL
func (c *Config) SearchHost() string {
	if c.Host != "" {
		return strings.TrimRight(c.Host, "/")
	}
	return fmt.Sprintf("https://%s-dsn.algolia.net", strings.ToLower(c.AppID))
}
