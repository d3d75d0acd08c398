package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "Tracker_Backup", cfg.Sheet.TasksSheet)
	assert.Equal(t, "Stats", cfg.Sheet.StatsSheet)
	assert.Equal(t, SourceGViz, cfg.Source.Kind)
	assert.Equal(t, "Asia/Kolkata", cfg.Time.Timezone)
	assert.Equal(t, 800, cfg.Parser.MaxRows)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("LIFEOS_ADDR", "127.0.0.1:9000")
	t.Setenv("LIFEOS_SPREADSHEET_ID", "sheet-123")
	t.Setenv("LIFEOS_TASKS_SHEET", "Tasks")
	t.Setenv("LIFEOS_TIMEZONE", "Europe/London")
	t.Setenv("LIFEOS_PARSER_MAX_ROWS", "50")
	t.Setenv("LIFEOS_CACHE_TTL", "2m")
	t.Setenv("LIFEOS_UPSTREAM_TIMEOUT", "not-a-duration")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "sheet-123", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, "Tasks", cfg.Sheet.TasksSheet)
	assert.Equal(t, "Europe/London", cfg.Time.Timezone)
	assert.Equal(t, 50, cfg.Parser.MaxRows)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout, "unparseable duration keeps the default")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"empty spreadsheet id", func(c *Config) { c.Sheet.SpreadsheetID = "" }, "sheet.spreadsheet_id"},
		{"relative gviz base", func(c *Config) { c.Sheet.GVizBaseURL = "docs.google.com" }, "sheet.gviz_base_url"},
		{"unknown source", func(c *Config) { c.Source.Kind = "csv" }, "source.kind"},
		{"sheets source without credentials", func(c *Config) { c.Source.Kind = SourceSheets }, "source.api_key"},
		{"bad write-back url", func(c *Config) { c.WriteBack.URL = "" }, "writeback.url"},
		{"unknown timezone", func(c *Config) { c.Time.Timezone = "Mars/Olympus" }, "time.timezone"},
		{"unknown source timezone", func(c *Config) { c.Time.SourceTimezone = "Nowhere" }, "time.source_timezone"},
		{"negative max rows", func(c *Config) { c.Parser.MaxRows = -1 }, "parser.max_rows"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_GVizURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Sheet.SpreadsheetID = "abc"
	cfg.Sheet.GVizBaseURL = "http://127.0.0.1:1234"

	assert.Equal(t, "http://127.0.0.1:1234/spreadsheets/d/abc/gviz/tq?sheet=Tracker_Backup&tqx=out%3Ajson", cfg.GVizURL("Tracker_Backup"))
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifeos.toml")
	content := `
[sheet]
spreadsheet_id = "from-file"
stats_sheet = "Weekly"

[cache]
ttl = "5m"

[parser]
max_rows = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LIFEOS_STATS_SHEET", "FromEnv")

	cfg, err := NewLoader().WithFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, "FromEnv", cfg.Sheet.StatsSheet, "environment wins over the file")
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Parser.MaxRows)
	assert.Equal(t, "Tracker_Backup", cfg.Sheet.TasksSheet, "unset keys keep defaults")
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader().WithFile(filepath.Join(t.TempDir(), "absent.toml")).Load()
	assert.Error(t, err)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	tz := "UTC"
	maxRows := 5
	badSource := "ftp"

	cfg, err := NewLoader().WithFile("").LoadWithOverrides(&ConfigOverrides{Timezone: &tz, MaxRows: &maxRows})
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Time.Timezone)
	assert.Equal(t, 5, cfg.Parser.MaxRows)

	_, err = NewLoader().WithFile("").LoadWithOverrides(&ConfigOverrides{Source: &badSource})
	assert.Error(t, err)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 3*time.Second, ParseDurationWithFallback("3s", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationWithFallback("x", time.Minute))
	assert.Equal(t, 42, ParseIntWithFallback("42", 1))
	assert.Equal(t, 1, ParseIntWithFallback("forty", 1))
}
