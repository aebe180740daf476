package domain

import (
	"app-time-tracker/internal/repository/sqlite"
)

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// NewProjectMapper creates a new ProjectMapper instance.
func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

// ToDatabase converts a domain Project to a database Project.
func (m *ProjectMapper) ToDatabase(p Project) sqlite.Project {
	return sqlite.Project{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromDatabase converts a database Project to a domain Project.
func (m *ProjectMapper) FromDatabase(p sqlite.Project) Project {
	status, ok := ParseProjectStatus(p.Status)
	if !ok {
		status = ProjectStatus(p.Status)
	}
	return Project{
		ID:        p.ID,
		Name:      p.Name,
		Status:    status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromDatabaseSlice converts a slice of database Projects to domain Projects.
func (m *ProjectMapper) FromDatabaseSlice(rows []*sqlite.Project) []Project {
	projects := make([]Project, len(rows))
	for i, row := range rows {
		projects[i] = m.FromDatabase(*row)
	}
	return projects
}

// TimeSessionMapper handles conversion between domain and database TimeSession models.
type TimeSessionMapper struct{}

// NewTimeSessionMapper creates a new TimeSessionMapper instance.
func NewTimeSessionMapper() *TimeSessionMapper {
	return &TimeSessionMapper{}
}

// ToDatabase converts a domain TimeSession to a database TimeSession.
func (m *TimeSessionMapper) ToDatabase(s TimeSession) sqlite.TimeSession {
	return sqlite.TimeSession{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		AppName:   s.AppName,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Duration:  s.DurationSeconds,
	}
}

// FromDatabase converts a database TimeSession to a domain TimeSession.
func (m *TimeSessionMapper) FromDatabase(s sqlite.TimeSession) TimeSession {
	return TimeSession{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		AppName:         s.AppName,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.Duration,
	}
}

// FromDatabaseSlice converts a slice of database TimeSessions to domain TimeSessions.
func (m *TimeSessionMapper) FromDatabaseSlice(rows []*sqlite.TimeSession) []TimeSession {
	sessions := make([]TimeSession, len(rows))
	for i, row := range rows {
		sessions[i] = m.FromDatabase(*row)
	}
	return sessions
}

// AppTotalsFromDatabase converts per-app sums from the store.
func AppTotalsFromDatabase(rows []*sqlite.AppDuration) []AppTotal {
	totals := make([]AppTotal, len(rows))
	for i, row := range rows {
		totals[i] = AppTotal{AppName: row.AppName, Seconds: row.Duration}
	}
	return totals
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Project     *ProjectMapper
	TimeSession *TimeSessionMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Project:     NewProjectMapper(),
		TimeSession: NewTimeSessionMapper(),
	}
}
