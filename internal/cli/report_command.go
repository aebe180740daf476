package cli

import (
	"context"
	"fmt"
	"strings"

	"app-time-tracker/internal/errors"
)

// ReportCommand handles the report command
type ReportCommand struct {
	app          *App
	showSessions bool
	errorHandler *ErrorHandler
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App, showSessions bool) *ReportCommand {
	return &ReportCommand{app: app, showSessions: showSessions, errorHandler: NewErrorHandler()}
}

// Execute prints a project's total and per-application breakdown
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return errors.NewInvalidInputError("project", "", "usage: att report <project>")
	}

	project, err := c.app.api.FindProject(ctx, ref)
	if err != nil {
		return c.errorHandler.Handle("show report", err)
	}

	report, err := c.app.api.ProjectReport(ctx, project.ID)
	if err != nil {
		return c.errorHandler.Handle("show report", err)
	}
	fmt.Fprintln(c.app.out, renderReport(report, c.app.config.Display.SummaryWidth))

	if !c.showSessions {
		return nil
	}

	sessions, err := c.app.api.ListSessions(ctx, project.ID)
	if err != nil {
		return c.errorHandler.Handle("list sessions", err)
	}
	fmt.Fprintln(c.app.out, renderSessions(sessions, c.app.formatTime))
	return nil
}
