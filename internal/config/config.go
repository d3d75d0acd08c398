package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

const (
	// SourceGViz reads sheets through the public visualization query endpoint.
	SourceGViz = "gviz"
	// SourceSheets reads sheets through the Google Sheets API.
	SourceSheets = "sheets"
)

// Config holds all configuration options for the proxy
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Sheet     SheetConfig     `toml:"sheet"`
	Source    SourceConfig    `toml:"source"`
	WriteBack WriteBackConfig `toml:"writeback"`
	Upstream  UpstreamConfig  `toml:"upstream"`
	Time      TimeConfig      `toml:"time"`
	Parser    ParserConfig    `toml:"parser"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr              string        `toml:"addr" env:"LIFEOS_ADDR"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout" env:"LIFEOS_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout" env:"LIFEOS_SHUTDOWN_TIMEOUT"`
}

// SheetConfig identifies the spreadsheet and the named sheets inside it
type SheetConfig struct {
	SpreadsheetID string `toml:"spreadsheet_id" env:"LIFEOS_SPREADSHEET_ID"`
	TasksSheet    string `toml:"tasks_sheet" env:"LIFEOS_TASKS_SHEET"`
	StatsSheet    string `toml:"stats_sheet" env:"LIFEOS_STATS_SHEET"`
	GVizBaseURL   string `toml:"gviz_base_url" env:"LIFEOS_GVIZ_BASE_URL"`
}

// SourceConfig selects how sheet rows are read
type SourceConfig struct {
	Kind            string `toml:"kind" env:"LIFEOS_SOURCE"`
	APIKey          string `toml:"api_key" env:"LIFEOS_SHEETS_API_KEY"`
	CredentialsFile string `toml:"credentials_file" env:"LIFEOS_SHEETS_CREDENTIALS_FILE"`
}

// WriteBackConfig holds the remote status update endpoint
type WriteBackConfig struct {
	URL string `toml:"url" env:"LIFEOS_WRITEBACK_URL"`
}

// UpstreamConfig holds outbound call configuration
type UpstreamConfig struct {
	Timeout time.Duration `toml:"timeout" env:"LIFEOS_UPSTREAM_TIMEOUT"`
}

// TimeConfig holds timezone configuration
type TimeConfig struct {
	Timezone       string `toml:"timezone" env:"LIFEOS_TIMEZONE"`
	SourceTimezone string `toml:"source_timezone" env:"LIFEOS_SOURCE_TIMEZONE"`
}

// ParserConfig holds row parsing limits
type ParserConfig struct {
	MaxRows int `toml:"max_rows" env:"LIFEOS_PARSER_MAX_ROWS"`
}

// CacheConfig holds read-through cache configuration
type CacheConfig struct {
	TTL  time.Duration `toml:"ttl" env:"LIFEOS_CACHE_TTL"`
	Path string        `toml:"path" env:"LIFEOS_CACHE_PATH"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `toml:"level" env:"LIFEOS_LOG_LEVEL"`
	Format string `toml:"format" env:"LIFEOS_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8787",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Sheet: SheetConfig{
			SpreadsheetID: "18ocx1P7NKqY2eCF4HpauqVL3yftGo_qi0CKfCAcDTfk",
			TasksSheet:    "Tracker_Backup",
			StatsSheet:    "Stats",
			GVizBaseURL:   "https://docs.google.com",
		},
		Source: SourceConfig{
			Kind: SourceGViz,
		},
		WriteBack: WriteBackConfig{
			URL: "https://script.google.com/macros/s/AKfycbwa5UGw5XmfxD4XwKfPRy1hMlIpZ3cAT3-kJZAijs-RAqYH9kP2xmx3epCLlhCR-FxH/exec",
		},
		Upstream: UpstreamConfig{
			Timeout: 30 * time.Second,
		},
		Time: TimeConfig{
			Timezone: "Asia/Kolkata",
		},
		Parser: ParserConfig{
			MaxRows: 800,
		},
		Cache: CacheConfig{
			TTL:  60 * time.Second,
			Path: ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if addr := os.Getenv("LIFEOS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("LIFEOS_READ_HEADER_TIMEOUT"); timeout != "" {
		c.Server.ReadHeaderTimeout = ParseDurationWithFallback(timeout, c.Server.ReadHeaderTimeout)
	}
	if timeout := os.Getenv("LIFEOS_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}

	// Sheet configuration
	if id := os.Getenv("LIFEOS_SPREADSHEET_ID"); id != "" {
		c.Sheet.SpreadsheetID = id
	}
	if sheet := os.Getenv("LIFEOS_TASKS_SHEET"); sheet != "" {
		c.Sheet.TasksSheet = sheet
	}
	if sheet := os.Getenv("LIFEOS_STATS_SHEET"); sheet != "" {
		c.Sheet.StatsSheet = sheet
	}
	if base := os.Getenv("LIFEOS_GVIZ_BASE_URL"); base != "" {
		c.Sheet.GVizBaseURL = base
	}

	// Source configuration
	if kind := os.Getenv("LIFEOS_SOURCE"); kind != "" {
		c.Source.Kind = kind
	}
	if key := os.Getenv("LIFEOS_SHEETS_API_KEY"); key != "" {
		c.Source.APIKey = key
	}
	if file := os.Getenv("LIFEOS_SHEETS_CREDENTIALS_FILE"); file != "" {
		c.Source.CredentialsFile = file
	}

	// Write-back and upstream configuration
	if u := os.Getenv("LIFEOS_WRITEBACK_URL"); u != "" {
		c.WriteBack.URL = u
	}
	if timeout := os.Getenv("LIFEOS_UPSTREAM_TIMEOUT"); timeout != "" {
		c.Upstream.Timeout = ParseDurationWithFallback(timeout, c.Upstream.Timeout)
	}

	// Time configuration
	if tz := os.Getenv("LIFEOS_TIMEZONE"); tz != "" {
		c.Time.Timezone = tz
	}
	if tz := os.Getenv("LIFEOS_SOURCE_TIMEZONE"); tz != "" {
		c.Time.SourceTimezone = tz
	}

	// Parser configuration
	if maxRows := os.Getenv("LIFEOS_PARSER_MAX_ROWS"); maxRows != "" {
		c.Parser.MaxRows = ParseIntWithFallback(maxRows, c.Parser.MaxRows)
	}

	// Cache configuration
	if ttl := os.Getenv("LIFEOS_CACHE_TTL"); ttl != "" {
		c.Cache.TTL = ParseDurationWithFallback(ttl, c.Cache.TTL)
	}
	if path := os.Getenv("LIFEOS_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}

	// Log configuration
	if level := os.Getenv("LIFEOS_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LIFEOS_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate sheet configuration
	if c.Sheet.SpreadsheetID == "" {
		return &ConfigError{Field: "sheet.spreadsheet_id", Message: "spreadsheet id cannot be empty"}
	}
	if c.Sheet.TasksSheet == "" {
		return &ConfigError{Field: "sheet.tasks_sheet", Message: "tasks sheet name cannot be empty"}
	}
	if c.Sheet.StatsSheet == "" {
		return &ConfigError{Field: "sheet.stats_sheet", Message: "stats sheet name cannot be empty"}
	}
	if _, err := url.ParseRequestURI(c.Sheet.GVizBaseURL); err != nil {
		return &ConfigError{Field: "sheet.gviz_base_url", Message: "gviz base url must be an absolute URL"}
	}

	// Validate source configuration
	switch c.Source.Kind {
	case SourceGViz:
	case SourceSheets:
		if c.Source.APIKey == "" && c.Source.CredentialsFile == "" {
			return &ConfigError{Field: "source.api_key", Message: "sheets source requires an api key or a credentials file"}
		}
	default:
		return &ConfigError{Field: "source.kind", Message: "source kind must be \"gviz\" or \"sheets\""}
	}

	// Validate write-back and upstream configuration
	if _, err := url.ParseRequestURI(c.WriteBack.URL); err != nil {
		return &ConfigError{Field: "writeback.url", Message: "write-back url must be an absolute URL"}
	}
	if c.Upstream.Timeout <= 0 {
		return &ConfigError{Field: "upstream.timeout", Message: "upstream timeout must be positive"}
	}

	// Validate time configuration
	if _, err := time.LoadLocation(c.Time.Timezone); err != nil || c.Time.Timezone == "" {
		return &ConfigError{Field: "time.timezone", Message: "timezone must be a valid IANA zone name"}
	}
	if c.Time.SourceTimezone != "" {
		if _, err := time.LoadLocation(c.Time.SourceTimezone); err != nil {
			return &ConfigError{Field: "time.source_timezone", Message: "source timezone must be a valid IANA zone name"}
		}
	}

	// Validate parser and cache configuration
	if c.Parser.MaxRows < 0 {
		return &ConfigError{Field: "parser.max_rows", Message: "max rows cannot be negative"}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "cache ttl cannot be negative"}
	}
	if c.Cache.Path == "" {
		return &ConfigError{Field: "cache.path", Message: "cache path cannot be empty"}
	}

	// Validate log configuration
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "log.level", Message: "log level must be debug, info, warn or error"}
	}

	return nil
}

// GVizURL returns the visualization query URL for the named sheet
func (c *Config) GVizURL(sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("sheet", sheet)
	return c.Sheet.GVizBaseURL + "/spreadsheets/d/" + url.PathEscape(c.Sheet.SpreadsheetID) + "/gviz/tq?" + q.Encode()
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}
