package cli

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"lifeos-proxy/internal/config"
	"lifeos-proxy/internal/services"

	"github.com/charmbracelet/log"
)

// App carries what every command handler needs
type App struct {
	service services.TaskService
	config  *config.Config
	logger  *log.Logger
	out     io.Writer
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(service services.TaskService, cfg *config.Config, logger *log.Logger, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		service: service,
		config:  cfg,
		logger:  logger,
		out:     out,
	}
}

// commandTimeout bounds a single command: one upstream read plus slack
func (a *App) commandTimeout() time.Duration {
	return 2 * a.config.Upstream.Timeout
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
