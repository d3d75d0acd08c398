package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when LIFEOS_CONFIG is unset
const DefaultConfigFile = "lifeos.toml"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
		path:   os.Getenv("LIFEOS_CONFIG"),
	}
}

// WithFile sets an explicit configuration file path
func (l *Loader) WithFile(path string) *Loader {
	l.path = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML file, if any
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFile decodes the TOML file over the defaults. A missing default file is
// not an error; a missing explicit file is.
func (l *Loader) loadFile() error {
	path := l.path
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, l.config); err != nil {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	Addr          *string
	SpreadsheetID *string
	TasksSheet    *string
	StatsSheet    *string
	Source        *string
	WriteBackURL  *string
	Timezone      *string
	MaxRows       *int
	CacheTTL      *time.Duration
	CachePath     *string
	LogLevel      *string
	LogFormat     *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	ApplyOverrides(config, overrides)
}

// ApplyOverrides copies every set override onto config
func ApplyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}
	if overrides.SpreadsheetID != nil {
		config.Sheet.SpreadsheetID = *overrides.SpreadsheetID
	}
	if overrides.TasksSheet != nil {
		config.Sheet.TasksSheet = *overrides.TasksSheet
	}
	if overrides.StatsSheet != nil {
		config.Sheet.StatsSheet = *overrides.StatsSheet
	}
	if overrides.Source != nil {
		config.Source.Kind = *overrides.Source
	}
	if overrides.WriteBackURL != nil {
		config.WriteBack.URL = *overrides.WriteBackURL
	}
	if overrides.Timezone != nil {
		config.Time.Timezone = *overrides.Timezone
	}
	if overrides.MaxRows != nil {
		config.Parser.MaxRows = *overrides.MaxRows
	}
	if overrides.CacheTTL != nil {
		config.Cache.TTL = *overrides.CacheTTL
	}
	if overrides.CachePath != nil {
		config.Cache.Path = *overrides.CachePath
	}
	if overrides.LogLevel != nil {
		config.Log.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Log.Format = *overrides.LogFormat
	}
}
