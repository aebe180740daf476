package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"app-time-tracker/internal/config"
	"app-time-tracker/internal/errors"
)

// ConfigShowCommand prints the effective configuration
type ConfigShowCommand struct {
	app *App
}

// NewConfigShowCommand creates a new config show handler
func NewConfigShowCommand(app *App) *ConfigShowCommand {
	return &ConfigShowCommand{app: app}
}

// Execute runs the config show command
func (c *ConfigShowCommand) Execute(ctx context.Context, args []string) error {
	data, err := config.Marshal(c.app.config)
	if err != nil {
		return err
	}
	if c.app.loader != nil {
		fmt.Fprintf(c.app.out, "# %s\n", c.app.loader.Path())
	}
	fmt.Fprint(c.app.out, string(data))
	return nil
}

// ConfigSetTimezoneCommand stores the display timezone in the config file
type ConfigSetTimezoneCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewConfigSetTimezoneCommand creates a new config set-timezone handler
func NewConfigSetTimezoneCommand(app *App) *ConfigSetTimezoneCommand {
	return &ConfigSetTimezoneCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the config set-timezone command
func (c *ConfigSetTimezoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewInvalidInputError("timezone", args, "usage: att config set-timezone <IANA name|Local|UTC>")
	}
	tz := strings.TrimSpace(args[0])

	if tz != "Local" {
		if _, err := time.LoadLocation(tz); err != nil {
			return c.errorHandler.Handle("set timezone", errors.NewInvalidInputError("timezone", tz, err.Error()))
		}
	}
	if c.app.loader == nil {
		return fmt.Errorf("failed to set timezone: no configuration file")
	}

	if err := c.app.loader.UpdateFile(func(cfg *config.Config) {
		cfg.Display.Timezone = tz
	}); err != nil {
		return c.errorHandler.Handle("set timezone", err)
	}

	c.app.config.Display.Timezone = tz
	fmt.Fprintf(c.app.out, "Display timezone set to %s in %s\n", tz, c.app.loader.Path())
	return nil
}
