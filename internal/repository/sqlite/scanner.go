package sqlite

import (
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanProject scans a single project from a database row. Column order:
// id, name, status, created_at, updated_at.
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	var createdAt, updatedAt string

	if err := scanner.Scan(&project.ID, &project.Name, &project.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if project.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("project %d created_at: %w", project.ID, err)
	}
	if project.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, fmt.Errorf("project %d updated_at: %w", project.ID, err)
	}
	return project, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	return scanAll(rows, ScanProject)
}

// ScanTimeSession scans a single session. Column order: id, project_id,
// app_name, start_time, end_time, duration.
func ScanTimeSession(scanner Scanner) (*TimeSession, error) {
	session := &TimeSession{}
	var startTime, endTime string

	err := scanner.Scan(
		&session.ID,
		&session.ProjectID,
		&session.AppName,
		&startTime,
		&endTime,
		&session.Duration,
	)
	if err != nil {
		return nil, err
	}

	if session.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, fmt.Errorf("session %d start_time: %w", session.ID, err)
	}
	if session.EndTime, err = ParseTimeFromDB(endTime); err != nil {
		return nil, fmt.Errorf("session %d end_time: %w", session.ID, err)
	}
	return session, nil
}

// ScanTimeSessions scans multiple sessions from database rows
func ScanTimeSessions(rows Rows) ([]*TimeSession, error) {
	return scanAll(rows, ScanTimeSession)
}

// ScanAppDuration scans an (app_name, total) pair.
func ScanAppDuration(scanner Scanner) (*AppDuration, error) {
	total := &AppDuration{}
	if err := scanner.Scan(&total.AppName, &total.Duration); err != nil {
		return nil, err
	}
	return total, nil
}

// ScanAppDurations scans multiple per-app totals from database rows
func ScanAppDurations(rows Rows) ([]*AppDuration, error) {
	return scanAll(rows, ScanAppDuration)
}

func scanAll[T any](rows Rows, scanOne func(Scanner) (*T, error)) ([]*T, error) {
	results := make([]*T, 0)
	for rows.Next() {
		item, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
