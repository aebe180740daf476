package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/services"
)

// TrackCommand handles the track command
type TrackCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTrackCommand creates a new track command handler
func NewTrackCommand(app *App) *TrackCommand {
	return &TrackCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute tracks the focused application for a project until interrupted
func (c *TrackCommand) Execute(ctx context.Context, args []string) error {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return errors.NewInvalidInputError("project", "", "usage: att track <project>")
	}

	project, err := c.app.api.FindProject(ctx, ref)
	if err != nil {
		return c.errorHandler.Handle("track", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := c.app.api.Track(ctx, project.ID, c.hooks())
	if result != nil {
		c.printSummary(result)
	}
	if err != nil {
		return c.errorHandler.Handle("track "+project.Name, err)
	}
	return nil
}

func (c *TrackCommand) hooks() services.TrackHooks {
	out := c.app.out
	return services.TrackHooks{
		OnStart: func(project domain.Project) {
			fmt.Fprintf(out, "Tracking %s. Press Ctrl+C to stop.\n", project.Name)
		},
		OnCommit: func(session domain.TimeSession) {
			fmt.Fprintf(out, "  %s  %s  %s\n",
				mutedStyle.Render(c.app.formatTime(session.EndTime)),
				session.AppName,
				services.FormatSeconds(session.DurationSeconds))
		},
		OnError: func(err error) {
			fmt.Fprintln(out, warnStyle.Render("warning: "+c.errorHandler.HandleSimple(err).Error()))
		},
	}
}

func (c *TrackCommand) printSummary(result *services.TrackResult) {
	out := c.app.out

	fmt.Fprintf(out, "\nStopped tracking %s: %d session(s) recorded", result.Project.Name, len(result.Committed))
	if result.Failed > 0 {
		fmt.Fprintf(out, ", %d could not be saved", result.Failed)
	}
	fmt.Fprintln(out)

	if result.Flushed != nil {
		fmt.Fprintf(out, "Saved open session: %s %s\n",
			result.Flushed.AppName, services.FormatSeconds(result.Flushed.DurationSeconds))
	} else if result.Discarded != "" {
		fmt.Fprintln(out, mutedStyle.Render("Open session in "+result.Discarded+" was not saved."))
	}

	if result.Report != nil {
		fmt.Fprintln(out, renderReport(result.Report, c.app.config.Display.SummaryWidth))
	}
}
