package cli

import (
	"context"
	"fmt"
	"strings"

	"app-time-tracker/internal/errors"
)

// ProjectCreateCommand handles project create
type ProjectCreateCommand struct {
	app          *App
	status       string
	errorHandler *ErrorHandler
}

// NewProjectCreateCommand creates a new project create handler. An empty
// status creates a WIP project.
func NewProjectCreateCommand(app *App, status string) *ProjectCreateCommand {
	return &ProjectCreateCommand{app: app, status: status, errorHandler: NewErrorHandler()}
}

// Execute runs the project create command
func (c *ProjectCreateCommand) Execute(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.NewInvalidInputError("name", "", "usage: att project create <name>")
	}

	project, err := c.app.api.CreateProject(ctx, name, c.status)
	if err != nil {
		return c.errorHandler.Handle("create project", err)
	}
	fmt.Fprintf(c.app.out, "Created project #%d: %s [%s]\n", project.ID, project.Name, project.Status)
	return nil
}

// ProjectListCommand handles project list
type ProjectListCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewProjectListCommand creates a new project list handler
func NewProjectListCommand(app *App) *ProjectListCommand {
	return &ProjectListCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the project list command
func (c *ProjectListCommand) Execute(ctx context.Context, args []string) error {
	summaries, err := c.app.api.ListProjects(ctx)
	if err != nil {
		return c.errorHandler.Handle("list projects", err)
	}
	fmt.Fprintln(c.app.out, renderProjects(summaries, timeNow()))
	return nil
}

// ProjectStatusCommand handles project status
type ProjectStatusCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewProjectStatusCommand creates a new project status handler
func NewProjectStatusCommand(app *App) *ProjectStatusCommand {
	return &ProjectStatusCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the project status command. Everything after the project
// reference is the status, so "On Hold" needs no quoting.
func (c *ProjectStatusCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("status", "", "usage: att project status <project> <status>")
	}

	project, err := c.app.api.FindProject(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("change status", err)
	}
	updated, err := c.app.api.SetProjectStatus(ctx, project.ID, strings.Join(args[1:], " "))
	if err != nil {
		return c.errorHandler.Handle("change status", err)
	}
	fmt.Fprintf(c.app.out, "%s is now %s\n", updated.Name, updated.Status)
	return nil
}

// ProjectRenameCommand handles project rename
type ProjectRenameCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewProjectRenameCommand creates a new project rename handler
func NewProjectRenameCommand(app *App) *ProjectRenameCommand {
	return &ProjectRenameCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the project rename command
func (c *ProjectRenameCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("name", "", "usage: att project rename <project> <new name>")
	}

	project, err := c.app.api.FindProject(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("rename project", err)
	}
	oldName := project.Name
	updated, err := c.app.api.RenameProject(ctx, project.ID, strings.Join(args[1:], " "))
	if err != nil {
		return c.errorHandler.Handle("rename project", err)
	}
	fmt.Fprintf(c.app.out, "Renamed %s to %s\n", oldName, updated.Name)
	return nil
}
