package cli

import (
	"context"
	"fmt"

	"lifeos-proxy/internal/config"
	"lifeos-proxy/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	factory    RuntimeFactory
	configPath string
	config     *config.Config
	logger     *log.Logger
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(factory RuntimeFactory) *RootCommand {
	if factory == nil {
		factory = NewRuntimeFactory(nil)
	}
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "lifeos",
		Short: "An HTTP proxy over a spreadsheet task tracker",
		Long: `lifeos reads the tracker and statistics sheets of a spreadsheet, normalizes
their rows, and serves them as JSON. Status updates are forwarded to a remote
write-back endpoint.

EXAMPLES:
  lifeos serve                             # Serve /tasks, /update and /stats
  lifeos tasks                             # Print today's tasks
  lifeos tasks --tomorrow --debug          # Print tomorrow's tasks with diagnostics
  lifeos stats --json                      # Print the statistics sheet as JSON
  lifeos update 4f2a9c Done                # Mark a task done
  lifeos cache list --cache-path cache.db  # Show cached sheets

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > lifeos.toml > defaults

    LIFEOS_CONFIG                          Config file path (default: ./lifeos.toml)
    LIFEOS_ADDR                            Listen address (default: :8787)
    LIFEOS_SPREADSHEET_ID                  Spreadsheet id
    LIFEOS_TASKS_SHEET                     Tracker sheet (default: Tracker_Backup)
    LIFEOS_STATS_SHEET                     Statistics sheet (default: Stats)
    LIFEOS_SOURCE                          gviz or sheets (default: gviz)
    LIFEOS_SHEETS_API_KEY                  API key for the sheets source
    LIFEOS_WRITEBACK_URL                   Status update endpoint
    LIFEOS_TIMEZONE                        Day boundary zone (default: Asia/Kolkata)
    LIFEOS_CACHE_TTL                       Response cache ttl, 0 disables (default: 60s)
    LIFEOS_CACHE_PATH                      Cache database (default: :memory:)
    LIFEOS_LOG_LEVEL                       debug, info, warn or error (default: info)
    LIFEOS_DEBUG                           Force debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configPath, "config", "", "Config file (overrides LIFEOS_CONFIG)")

	flags.String("addr", "", "Listen address (overrides LIFEOS_ADDR)")
	flags.String("spreadsheet-id", "", "Spreadsheet id (overrides LIFEOS_SPREADSHEET_ID)")
	flags.String("tasks-sheet", "", "Tracker sheet name (overrides LIFEOS_TASKS_SHEET)")
	flags.String("stats-sheet", "", "Statistics sheet name (overrides LIFEOS_STATS_SHEET)")
	flags.String("source", "", "Sheet source, gviz or sheets (overrides LIFEOS_SOURCE)")
	flags.String("writeback-url", "", "Status update endpoint (overrides LIFEOS_WRITEBACK_URL)")
	flags.String("timezone", "", "Day boundary timezone (overrides LIFEOS_TIMEZONE)")
	flags.Int("max-rows", 0, "Maximum rows parsed per sheet (overrides LIFEOS_PARSER_MAX_ROWS)")
	flags.Duration("cache-ttl", 0, "Response cache ttl (overrides LIFEOS_CACHE_TTL)")
	flags.String("cache-path", "", "Cache database path (overrides LIFEOS_CACHE_PATH)")
	flags.String("log-level", "", "Log level (overrides LIFEOS_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text, json or logfmt (overrides LIFEOS_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy",
		Long:  "Serve /tasks, /update and /stats until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			return NewServeCommand(app, rt.Cache).Execute(cmd.Context(), args)
		},
	}

	tasks := &TasksCommand{}
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print today's tasks",
		Long: `Print the tasks scheduled for today, ordered by start time.

Examples:
  lifeos tasks                 # Today's tasks
  lifeos tasks --tomorrow      # Tomorrow's tasks
  lifeos tasks --json --debug  # The /tasks?debug=1 payload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), app.commandTimeout())
			defer cancel()

			handler := NewTasksCommand(app)
			handler.Tomorrow, handler.Debug, handler.JSON = tasks.Tomorrow, tasks.Debug, tasks.JSON
			return handler.Execute(ctx, args)
		},
	}
	tasksCmd.Flags().BoolVar(&tasks.Tomorrow, "tomorrow", false, "List tomorrow's tasks instead of today's")
	tasksCmd.Flags().BoolVar(&tasks.Debug, "debug", false, "Print how the listing was produced")
	tasksCmd.Flags().BoolVar(&tasks.JSON, "json", false, "Print JSON")

	var statsJSON bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), app.commandTimeout())
			defer cancel()

			handler := NewStatsCommand(app)
			handler.JSON = statsJSON
			return handler.Execute(ctx, args)
		},
	}
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")

	updateCmd := &cobra.Command{
		Use:   "update <taskKey> <status>",
		Short: "Update the status of a task",
		Long: `Forward a status update to the write-back endpoint and print its answer.

Example:
  lifeos update 4f2a9c Done`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), app.commandTimeout())
			defer cancel()

			return NewUpdateCommand(app).Execute(ctx, args)
		},
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the response cache",
		Long: `Inspect or prune the response cache. Only useful with a file-backed
cache (--cache-path or LIFEOS_CACHE_PATH).`,
	}
	cacheListCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			return NewCacheCommand(app, rt.Cache).List(cmd.Context())
		},
	}
	cachePurgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := r.prepare(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			return NewCacheCommand(app, rt.Cache).Purge(cmd.Context())
		},
	}
	cacheCmd.AddCommand(cacheListCmd, cachePurgeCmd)

	r.cmd.AddCommand(serveCmd, tasksCmd, statsCmd, updateCmd, cacheCmd)
}

// prepare builds the runtime and the App for one command invocation
func (r *RootCommand) prepare(cmd *cobra.Command) (*Runtime, *App, error) {
	if r.config == nil {
		return nil, nil, fmt.Errorf("configuration not initialized")
	}

	rt, err := r.factory(cmd.Context(), r.config, r.logger)
	if err != nil {
		return nil, nil, err
	}
	return rt, NewApp(rt.Services.TaskService, r.config, r.logger, cmd.OutOrStdout()), nil
}

// loadConfig loads the configuration, applies flag overrides and sets up logging
func (r *RootCommand) loadConfig() error {
	loader := config.NewLoader()
	if r.configPath != "" {
		loader = loader.WithFile(r.configPath)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg

	r.logger = logging.Setup(logging.Options{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		ReportTimestamp: true,
		Output:          r.cmd.ErrOrStderr(),
	})
	return nil
}

// overridesFromFlags collects the flags set on the command line
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	overrides.Addr = str("addr")
	overrides.SpreadsheetID = str("spreadsheet-id")
	overrides.TasksSheet = str("tasks-sheet")
	overrides.StatsSheet = str("stats-sheet")
	overrides.Source = str("source")
	overrides.WriteBackURL = str("writeback-url")
	overrides.Timezone = str("timezone")
	overrides.CachePath = str("cache-path")
	overrides.LogLevel = str("log-level")
	overrides.LogFormat = str("log-format")

	if flags.Changed("max-rows") {
		v, _ := flags.GetInt("max-rows")
		overrides.MaxRows = &v
	}
	if flags.Changed("cache-ttl") {
		v, _ := flags.GetDuration("cache-ttl")
		overrides.CacheTTL = &v
	}

	return overrides
}

// Config returns the configuration loaded for the last invocation
func (r *RootCommand) Config() *config.Config {
	return r.config
}
