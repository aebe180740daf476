package services

import (
	"context"
	"log/slog"

	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/logging"
	"app-time-tracker/internal/repository/sqlite"
	"app-time-tracker/internal/validation"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo             sqlite.Repository
	mapper           *domain.Mapper
	projectValidator *validation.ProjectValidator
	sessionValidator *validation.SessionValidator
	logger           *slog.Logger
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlite.Repository, cfg *config.Config, logger *slog.Logger) ReportingService {
	return &reportingServiceImpl{
		repo:             repo,
		mapper:           domain.NewMapper(),
		projectValidator: validation.NewProjectValidatorWithConfig(cfg),
		sessionValidator: validation.NewSessionValidatorWithConfig(cfg),
		logger:           logging.OrDiscard(logger),
	}
}

// TotalTime returns the summed session seconds of a project
func (r *reportingServiceImpl) TotalTime(ctx context.Context, projectID int64) (float64, error) {
	return r.repo.SumDuration(ctx, projectID)
}

// Breakdown returns per-app totals, largest first with ties by app name
func (r *reportingServiceImpl) Breakdown(ctx context.Context, projectID int64) ([]domain.AppTotal, error) {
	rows, err := r.repo.SumDurationByApp(ctx, projectID)
	if err != nil {
		return nil, err
	}

	totals := domain.AppTotalsFromDatabase(rows)
	domain.SortAppTotals(totals)
	return totals, nil
}

// Rescale multiplies every session duration of app within the project by
// newTotal/oldTotal. An app with no recorded time is left alone and the
// returned factor is zero.
func (r *reportingServiceImpl) Rescale(ctx context.Context, projectID int64, appName string, newTotalSeconds float64) (float64, error) {
	if err := r.sessionValidator.ValidateRescale(projectID, appName, newTotalSeconds); err != nil {
		return 0, errors.NewValidationError("invalid rescale", err)
	}
	if _, err := r.repo.GetProject(ctx, projectID); err != nil {
		return 0, err
	}

	oldTotal, err := r.repo.SumDurationForApp(ctx, projectID, appName)
	if err != nil {
		return 0, err
	}
	if oldTotal == 0 {
		r.logger.Info("nothing to rescale", "project_id", projectID, "app", appName)
		return 0, nil
	}

	factor := newTotalSeconds / oldTotal
	rows, err := r.repo.RescaleSessions(ctx, projectID, appName, factor)
	if err != nil {
		return 0, err
	}

	r.logger.Info("sessions rescaled",
		"project_id", projectID, "app", appName,
		"old_seconds", oldTotal, "new_seconds", newTotalSeconds,
		"factor", factor, "sessions", rows)
	return factor, nil
}

// ProjectReport combines the project total and its per-app breakdown
func (r *reportingServiceImpl) ProjectReport(ctx context.Context, projectID int64) (*domain.ProjectReport, error) {
	if err := r.projectValidator.ValidateProjectID(projectID); err != nil {
		return nil, errors.NewValidationError("invalid project ID", err)
	}

	dbProject, err := r.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	total, err := r.TotalTime(ctx, projectID)
	if err != nil {
		return nil, err
	}
	apps, err := r.Breakdown(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &domain.ProjectReport{
		Project:      r.mapper.Project.FromDatabase(*dbProject),
		TotalSeconds: total,
		Apps:         apps,
	}, nil
}

// ListSessions returns a project's sessions in start order
func (r *reportingServiceImpl) ListSessions(ctx context.Context, projectID int64) ([]domain.TimeSession, error) {
	rows, err := r.repo.ListSessions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return r.mapper.TimeSession.FromDatabaseSlice(rows), nil
}
