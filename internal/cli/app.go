package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"app-time-tracker/internal/api"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/logging"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// Command is implemented by every subcommand handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// App carries what the command handlers share
type App struct {
	api    api.API
	config *config.Config
	loader *config.Loader
	logger *slog.Logger
	out    io.Writer
}

// NewApp creates a CLI application around an API with default configuration
func NewApp(apiInstance api.API) *App {
	return NewAppWithConfig(apiInstance, config.NewConfig())
}

// NewAppWithConfig creates a CLI application with the given configuration
func NewAppWithConfig(apiInstance api.API, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:    apiInstance,
		config: cfg,
		logger: logging.Discard(),
		out:    os.Stdout,
	}
}

// WithOutput directs command output to w
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithLoader sets the loader used by commands that persist configuration
func (a *App) WithLoader(loader *config.Loader) *App {
	a.loader = loader
	return a
}

// WithLogger sets the structured logger
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logging.OrDiscard(logger)
	return a
}

// location resolves the display timezone, falling back to local time
func (a *App) location() *time.Location {
	loc, err := a.config.Location()
	if err != nil {
		a.logger.Warn("unknown display timezone, using local time",
			"timezone", a.config.Display.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func (a *App) formatTime(t time.Time) string {
	return t.In(a.location()).Format(a.config.Display.TimeFormat)
}
