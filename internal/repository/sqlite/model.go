package sqlite

import "time"

// Project is a row of the projects table.
type Project struct {
	ID        int64
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeSession is a row of the time_sessions table. Duration is stored in
// seconds independently of the bounds so that it can be rescaled.
type TimeSession struct {
	ID        int64
	ProjectID int64
	AppName   string
	StartTime time.Time
	EndTime   time.Time
	Duration  float64
}

// AppDuration is the summed duration of one application within a project.
type AppDuration struct {
	AppName  string
	Duration float64
}
