package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/services"
)

// RescaleCommand handles the rescale command
type RescaleCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewRescaleCommand creates a new rescale command handler
func NewRescaleCommand(app *App) *RescaleCommand {
	return &RescaleCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute corrects the recorded total of one application in a project.
// Args are <project> <app> <new total>.
func (c *RescaleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.NewInvalidInputError("arguments", args, "usage: att rescale <project> <app> <new total>")
	}

	newTotal, err := parseTotal(args[2])
	if err != nil {
		return c.errorHandler.Handle("rescale", err)
	}

	project, err := c.app.api.FindProject(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("rescale", err)
	}

	result, err := c.app.api.Rescale(ctx, project.ID, args[1], newTotal)
	if err != nil {
		return c.errorHandler.Handle("rescale", err)
	}

	if !result.Applied {
		fmt.Fprintf(c.app.out, "%s has no recorded time in %s; nothing to rescale\n", result.AppName, result.Project.Name)
		return nil
	}
	fmt.Fprintf(c.app.out, "Rescaled %s in %s: %s -> %s (x%.2f)\n",
		result.AppName, result.Project.Name,
		services.FormatSeconds(result.OldSeconds), services.FormatSeconds(result.NewSeconds),
		result.Factor)
	return nil
}

// parseTotal reads a new total in seconds. Durations such as "1h30m" are
// accepted, and a bare number is taken as hours.
func parseTotal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d.Seconds(), nil
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("new total", s, "expected a duration like 1h30m or a number of hours")
	}
	return hours * 3600, nil
}
