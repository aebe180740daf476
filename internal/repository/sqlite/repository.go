package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Repository defines the interface for database operations
type Repository interface {
	// Projects
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// Sessions
	InsertSession(ctx context.Context, session *TimeSession) error
	ListSessions(ctx context.Context, projectID int64) ([]*TimeSession, error)
	LastSessionEnd(ctx context.Context, projectID int64) (time.Time, error)

	// Aggregates
	SumDuration(ctx context.Context, projectID int64) (float64, error)
	SumDurationForApp(ctx context.Context, projectID int64, appName string) (float64, error)
	SumDurationByApp(ctx context.Context, projectID int64) ([]*AppDuration, error)
	RescaleSessions(ctx context.Context, projectID int64, appName string, factor float64) (int64, error)

	// Utility
	Close() error
}

// Options tunes the connection and per-operation deadlines. Zero values
// disable the corresponding timeout.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
	BusyTimeout  time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithConfig(dbPath, Options{BusyTimeout: 5 * time.Second})
}

// NewWithConfig opens the database at dbPath, applies pending migrations
// and returns a repository using opts.
func NewWithConfig(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", buildDSN(dbPath, opts))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if dbPath == MemoryPath {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

func buildDSN(dbPath string, opts Options) string {
	pragmas := []string{"_pragma=foreign_keys(1)"}
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	if dbPath != MemoryPath {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	return dbPath + "?" + strings.Join(pragmas, "&")
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// CreateProject creates a new project and fills in its ID and timestamps
func (r *SQLiteRepository) CreateProject(ctx context.Context, project *Project) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	now := r.now()
	query := `
	INSERT INTO projects (name, status, created_at, updated_at)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, project.Name, project.Status, FormatTimeForDB(now), FormatTimeForDB(now))
	if err != nil {
		return err
	}

	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (*Project, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
	SELECT id, name, status, created_at, updated_at
	FROM projects
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanProject, "project", fmt.Sprintf("%d", id), id)
}

// ListProjects retrieves all projects, most recently updated first
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
	SELECT id, name, status, created_at, updated_at
	FROM projects
	ORDER BY updated_at DESC, id DESC`

	return QueryMultiple(ctx, r.db, query, ScanProjects, "projects")
}

// UpdateProject saves the name and status of an existing project and bumps
// its updated_at.
func (r *SQLiteRepository) UpdateProject(ctx context.Context, project *Project) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	now := r.now()
	query := `
	UPDATE projects
	SET name = ?, status = ?, updated_at = ?
	WHERE id = ?`

	err := ExecuteWithRowsAffected(ctx, r.db, query, "project", fmt.Sprintf("%d", project.ID), project.Name, project.Status, FormatTimeForDB(now), project.ID)
	if err != nil {
		return err
	}
	project.UpdatedAt = now
	return nil
}

// InsertSession records a closed session
func (r *SQLiteRepository) InsertSession(ctx context.Context, session *TimeSession) error {
	if !session.EndTime.After(session.StartTime) {
		return errors.NewValidationError("session end time must be after start time", nil)
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO time_sessions (project_id, app_name, start_time, end_time, duration)
	VALUES (?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		session.ProjectID,
		session.AppName,
		FormatTimeForDB(session.StartTime),
		FormatTimeForDB(session.EndTime),
		session.Duration,
	)
	if err != nil {
		return err
	}

	session.ID = id
	return nil
}

// ListSessions retrieves the sessions of a project in start order
func (r *SQLiteRepository) ListSessions(ctx context.Context, projectID int64) ([]*TimeSession, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
	SELECT id, project_id, app_name, start_time, end_time, duration
	FROM time_sessions
	WHERE project_id = ?
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanTimeSessions, "time sessions", projectID)
}

// LastSessionEnd returns the end of the project's latest session, or the
// zero time when it has none
func (r *SQLiteRepository) LastSessionEnd(ctx context.Context, projectID int64) (time.Time, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT MAX(end_time) FROM time_sessions WHERE project_id = ?`
	return QueryTime(ctx, r.db, "last session end", query, projectID)
}

// SumDuration returns the total stored seconds of a project
func (r *SQLiteRepository) SumDuration(ctx context.Context, projectID int64) (float64, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT SUM(duration) FROM time_sessions WHERE project_id = ?`
	return QueryFloat(ctx, r.db, "sum project duration", query, projectID)
}

// SumDurationForApp returns the stored seconds of one app within a project
func (r *SQLiteRepository) SumDurationForApp(ctx context.Context, projectID int64, appName string) (float64, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT SUM(duration) FROM time_sessions WHERE project_id = ? AND app_name = ?`
	return QueryFloat(ctx, r.db, "sum app duration", query, projectID, appName)
}

// SumDurationByApp returns per-app totals, largest first
func (r *SQLiteRepository) SumDurationByApp(ctx context.Context, projectID int64) ([]*AppDuration, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
	SELECT app_name, SUM(duration) AS total
	FROM time_sessions
	WHERE project_id = ?
	GROUP BY app_name
	ORDER BY total DESC, app_name ASC`

	return QueryMultiple(ctx, r.db, query, ScanAppDurations, "app durations", projectID)
}

// RescaleSessions multiplies the stored duration of every matching session
// by factor and returns the number of sessions touched. Session bounds are
// left unchanged.
func (r *SQLiteRepository) RescaleSessions(ctx context.Context, projectID int64, appName string, factor float64) (int64, error) {
	if factor < 0 {
		return 0, errors.NewInvalidInputError("factor", factor, "must not be negative")
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	UPDATE time_sessions
	SET duration = duration * ?
	WHERE project_id = ? AND app_name = ?`

	result, err := r.db.ExecContext(ctx, query, factor, projectID, appName)
	if err != nil {
		return 0, HandleDatabaseError("rescale sessions", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, HandleDatabaseError("get rows affected", err)
	}
	return rows, nil
}
