package services

import (
	"context"
	"time"

	"app-time-tracker/internal/domain"
)

// ProjectSummary is a project with its tracked total and the end of its
// most recent session, used by project listings
type ProjectSummary struct {
	Project      domain.Project `json:"project"`
	TotalSeconds float64        `json:"total_seconds"`
	LastTracked  time.Time      `json:"last_tracked"` // zero if never tracked
}

// TrackHooks receives tracking events as they happen. Hooks are called
// from a single goroutine; nil hooks are skipped.
type TrackHooks struct {
	OnStart  func(project domain.Project)
	OnCommit func(session domain.TimeSession)
	OnError  func(err error)
}

// TrackResult describes a finished tracking run
type TrackResult struct {
	Project   domain.Project        `json:"project"`
	Committed []domain.TimeSession  `json:"committed"`
	Failed    int                   `json:"failed"`
	Flushed   *domain.TimeSession   `json:"flushed,omitempty"`
	Discarded string                `json:"discarded,omitempty"` // app left open at shutdown and not flushed
	Report    *domain.ProjectReport `json:"report"`
}

// ProjectService handles project lifecycle operations
type ProjectService interface {
	CreateProject(ctx context.Context, name, status string) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListProjectSummaries(ctx context.Context) ([]ProjectSummary, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Project, error)
	RenameProject(ctx context.Context, id int64, name string) (*domain.Project, error)
}

// ReportingService answers read-side questions over stored sessions and
// applies manual corrections
type ReportingService interface {
	// Aggregates. A project without sessions reports zero.
	TotalTime(ctx context.Context, projectID int64) (float64, error)
	Breakdown(ctx context.Context, projectID int64) ([]domain.AppTotal, error)

	// Rescale scales every session of app so the app total becomes
	// newTotalSeconds, returning the factor applied
	Rescale(ctx context.Context, projectID int64, appName string, newTotalSeconds float64) (float64, error)

	ProjectReport(ctx context.Context, projectID int64) (*domain.ProjectReport, error)
	ListSessions(ctx context.Context, projectID int64) ([]domain.TimeSession, error)
}

// TrackingService runs the tracking loop for a project
type TrackingService interface {
	// Track blocks until ctx is cancelled or the store becomes unavailable
	Track(ctx context.Context, projectID int64, hooks TrackHooks) (*TrackResult, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	ProjectService   ProjectService
	ReportingService ReportingService
	TrackingService  TrackingService
}
