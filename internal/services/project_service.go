package services

import (
	"context"

	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/repository/sqlite"
	"app-time-tracker/internal/validation"
)

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.ProjectValidator
}

// NewProjectService creates a new ProjectService instance. cfg may be nil,
// in which case default validation limits apply.
func NewProjectService(repo sqlite.Repository, cfg *config.Config) ProjectService {
	return &projectServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewProjectValidatorWithConfig(cfg),
	}
}

// CreateProject creates a project. An empty status means WIP.
func (p *projectServiceImpl) CreateProject(ctx context.Context, name, status string) (*domain.Project, error) {
	project, err := p.validator.ValidateProjectForCreation(name, status)
	if err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}

	dbProject := p.mapper.Project.ToDatabase(project)
	if err := p.repo.CreateProject(ctx, &dbProject); err != nil {
		return nil, err
	}

	created := p.mapper.Project.FromDatabase(dbProject)
	return &created, nil
}

// GetProject retrieves a project by its ID
func (p *projectServiceImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	if err := p.validator.ValidateProjectID(id); err != nil {
		return nil, errors.NewValidationError("invalid project ID", err)
	}

	dbProject, err := p.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	project := p.mapper.Project.FromDatabase(*dbProject)
	return &project, nil
}

// ListProjects returns every project, most recently updated first
func (p *projectServiceImpl) ListProjects(ctx context.Context) ([]domain.Project, error) {
	dbProjects, err := p.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return p.mapper.Project.FromDatabaseSlice(dbProjects), nil
}

// ListProjectSummaries returns every project with its tracked total
func (p *projectServiceImpl) ListProjectSummaries(ctx context.Context) ([]ProjectSummary, error) {
	projects, err := p.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, project := range projects {
		total, err := p.repo.SumDuration(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		last, err := p.repo.LastSessionEnd(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ProjectSummary{
			Project:      project,
			TotalSeconds: total,
			LastTracked:  last,
		})
	}
	return summaries, nil
}

// UpdateStatus changes a project's status
func (p *projectServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Project, error) {
	parsed, err := p.validator.ValidateStatus(status)
	if err != nil {
		return nil, errors.NewValidationError("invalid project status", err)
	}

	return p.update(ctx, id, func(project *domain.Project) {
		project.Status = parsed
	})
}

// RenameProject changes a project's name
func (p *projectServiceImpl) RenameProject(ctx context.Context, id int64, name string) (*domain.Project, error) {
	trimmedName, err := p.validator.GetValidProjectName(name)
	if err != nil {
		return nil, errors.NewValidationError("invalid project name", err)
	}

	return p.update(ctx, id, func(project *domain.Project) {
		project.Name = trimmedName
	})
}

func (p *projectServiceImpl) update(ctx context.Context, id int64, mutate func(*domain.Project)) (*domain.Project, error) {
	project, err := p.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(project)

	dbProject := p.mapper.Project.ToDatabase(*project)
	if err := p.repo.UpdateProject(ctx, &dbProject); err != nil {
		return nil, err
	}

	updated := p.mapper.Project.FromDatabase(dbProject)
	return &updated, nil
}
