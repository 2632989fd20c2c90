package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultKeyword       = "vegan"
	DefaultAnnualPath    = "T01VEGAN_KEYWORDS_TBL_yyyy.xlsx"
	DefaultMonthlyPath   = "T01VEGAN_KEYWORDS_TBL_mm.xlsx"
	DefaultHost          = "localhost"
	DefaultPort          = "8080"
	DefaultRetryInterval = 50 * time.Millisecond
	DefaultMaxAttempts   = 100
)

type Config struct {
	Keyword string        `toml:"keyword"`
	Sources SourcesConfig `toml:"sources"`
	Web     WebConfig     `toml:"web"`
	Render  RenderConfig  `toml:"render"`
}

type SourcesConfig struct {
	Annual  SourceConfig `toml:"annual"`
	Monthly SourceConfig `toml:"monthly"`
}

// SourceConfig points at one input dataset. Sheet applies to spreadsheets,
// Table to SQLite snapshots.
type SourceConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet,omitempty"`
	Table string `toml:"table,omitempty"`
}

type WebConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

type RenderConfig struct {
	RetryInterval Duration `toml:"retry_interval"`
	MaxAttempts   int      `toml:"max_attempts"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the TOML file at configPath. A missing file yields the
// defaults; unset fields in an existing file are filled with defaults too.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Keyword == "" {
		c.Keyword = DefaultKeyword
	}
	if c.Sources.Annual.Path == "" {
		c.Sources.Annual.Path = DefaultAnnualPath
	}
	if c.Sources.Monthly.Path == "" {
		c.Sources.Monthly.Path = DefaultMonthlyPath
	}
	if c.Web.Host == "" {
		c.Web.Host = DefaultHost
	}
	if c.Web.Port == "" {
		c.Web.Port = DefaultPort
	}
	if c.Render.RetryInterval.Duration == 0 {
		c.Render.RetryInterval = Duration{DefaultRetryInterval}
	}
	if c.Render.MaxAttempts == 0 {
		c.Render.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate rejects settings that would make the render wait unbounded or
// never start.
func (c *Config) Validate() error {
	if c.Render.RetryInterval.Duration < 0 {
		return fmt.Errorf("render.retry_interval must be positive, got %s", c.Render.RetryInterval)
	}
	if c.Render.MaxAttempts < 0 {
		return fmt.Errorf("render.max_attempts must be positive, got %d", c.Render.MaxAttempts)
	}
	return nil
}

// ResolvePaths makes relative source paths relative to the directory of the
// config file.
func (c *Config) ResolvePaths(configPath string) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	base := filepath.Dir(configPath)
	for _, src := range []*SourceConfig{&c.Sources.Annual, &c.Sources.Monthly} {
		if src.Path != "" && !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(base, src.Path)
		}
	}
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// GetConfigDir returns the configuration directory for tweetmetrics
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "tweetmetrics"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
