package api

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"app-time-tracker/internal/clock"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"
	"app-time-tracker/internal/services"
)

// RescaleResult describes an applied (or skipped) total correction
type RescaleResult struct {
	Project    domain.Project `json:"project"`
	AppName    string         `json:"app_name"`
	OldSeconds float64        `json:"old_seconds"`
	NewSeconds float64        `json:"new_seconds"`
	Factor     float64        `json:"factor"`
	Applied    bool           `json:"applied"` // false when the app had no recorded time
}

// API defines the user workflows the command line drives
type API interface {
	// ========== Project Management ==========

	// CreateProject creates a project; an empty status means WIP
	CreateProject(ctx context.Context, name, status string) (*domain.Project, error)

	// ListProjects returns every project with its tracked total, most recently updated first
	ListProjects(ctx context.Context) ([]services.ProjectSummary, error)

	// FindProject resolves a project by numeric ID or by case-insensitive exact name
	FindProject(ctx context.Context, ref string) (*domain.Project, error)

	// SetProjectStatus changes a project's status
	SetProjectStatus(ctx context.Context, projectID int64, status string) (*domain.Project, error)

	// RenameProject changes a project's name
	RenameProject(ctx context.Context, projectID int64, name string) (*domain.Project, error)

	// ========== Tracking ==========

	// Track records focused applications for a project until ctx is cancelled
	Track(ctx context.Context, projectID int64, hooks services.TrackHooks) (*services.TrackResult, error)

	// ========== Reports and Corrections ==========

	// ProjectReport returns a project's total and per-app breakdown
	ProjectReport(ctx context.Context, projectID int64) (*domain.ProjectReport, error)

	// ListSessions returns a project's sessions in start order
	ListSessions(ctx context.Context, projectID int64) ([]domain.TimeSession, error)

	// Rescale corrects the recorded total of one app in a project
	Rescale(ctx context.Context, projectID int64, appName string, newTotalSeconds float64) (*RescaleResult, error)
}

// apiImpl implements the API interface on top of the services
type apiImpl struct {
	projects  services.ProjectService
	reporting services.ReportingService
	tracking  services.TrackingService
}

// New creates a new API instance from a service container
func New(container *services.ServiceContainer) API {
	return &apiImpl{
		projects:  container.ProjectService,
		reporting: container.ReportingService,
		tracking:  container.TrackingService,
	}
}

// NewWithConfig wires repository, probe and services from configuration
func NewWithConfig(repo sqlite.Repository, cfg *config.Config, p probe.Probe, logger *slog.Logger) API {
	return New(services.NewServiceContainer(repo, cfg, p, clock.Real(), logger))
}

// ========== Project Management ==========

func (a *apiImpl) CreateProject(ctx context.Context, name, status string) (*domain.Project, error) {
	return a.projects.CreateProject(ctx, name, status)
}

func (a *apiImpl) ListProjects(ctx context.Context) ([]services.ProjectSummary, error) {
	return a.projects.ListProjectSummaries(ctx)
}

func (a *apiImpl) FindProject(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationError("project name or ID is required", nil)
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.projects.GetProject(ctx, id)
	}

	projects, err := a.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		if strings.EqualFold(project.Name, ref) {
			found := project
			return &found, nil
		}
	}
	return nil, errors.NewNotFoundError("project", ref)
}

func (a *apiImpl) SetProjectStatus(ctx context.Context, projectID int64, status string) (*domain.Project, error) {
	return a.projects.UpdateStatus(ctx, projectID, status)
}

func (a *apiImpl) RenameProject(ctx context.Context, projectID int64, name string) (*domain.Project, error) {
	return a.projects.RenameProject(ctx, projectID, name)
}

// ========== Tracking ==========

func (a *apiImpl) Track(ctx context.Context, projectID int64, hooks services.TrackHooks) (*services.TrackResult, error) {
	return a.tracking.Track(ctx, projectID, hooks)
}

// ========== Reports and Corrections ==========

func (a *apiImpl) ProjectReport(ctx context.Context, projectID int64) (*domain.ProjectReport, error) {
	return a.reporting.ProjectReport(ctx, projectID)
}

func (a *apiImpl) ListSessions(ctx context.Context, projectID int64) ([]domain.TimeSession, error) {
	if _, err := a.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return a.reporting.ListSessions(ctx, projectID)
}

func (a *apiImpl) Rescale(ctx context.Context, projectID int64, appName string, newTotalSeconds float64) (*RescaleResult, error) {
	project, err := a.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	totals, err := a.reporting.Breakdown(ctx, projectID)
	if err != nil {
		return nil, err
	}
	appName = strings.TrimSpace(appName)
	var oldSeconds float64
	for _, total := range totals {
		if total.AppName == appName {
			oldSeconds = total.Seconds
			break
		}
	}

	factor, err := a.reporting.Rescale(ctx, projectID, appName, newTotalSeconds)
	if err != nil {
		return nil, err
	}

	result := &RescaleResult{
		Project:    *project,
		AppName:    appName,
		OldSeconds: oldSeconds,
		NewSeconds: oldSeconds,
		Factor:     factor,
		Applied:    oldSeconds > 0,
	}
	if result.Applied {
		result.NewSeconds = newTotalSeconds
	}
	return result, nil
}
