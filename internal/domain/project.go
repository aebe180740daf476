package domain

import (
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state a user assigns to a project.
type ProjectStatus string

const (
	StatusWIP      ProjectStatus = "WIP"
	StatusFinished ProjectStatus = "Finished"
	StatusOnHold   ProjectStatus = "On Hold"
	StatusWaitlist ProjectStatus = "Waitlist"
)

// ProjectStatuses lists every valid status in display order.
var ProjectStatuses = []ProjectStatus{StatusWIP, StatusWaitlist, StatusOnHold, StatusFinished}

// ParseProjectStatus accepts the stored spelling as well as the usual
// command-line variants ("onhold", "on-hold", "wip").
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(normalized)
	switch normalized {
	case "wip", "workinprogress":
		return StatusWIP, true
	case "finished", "done":
		return StatusFinished, true
	case "onhold":
		return StatusOnHold, true
	case "waitlist":
		return StatusWaitlist, true
	}
	return "", false
}

// IsValid reports whether the status is one of the known values.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusWIP, StatusFinished, StatusOnHold, StatusWaitlist:
		return true
	}
	return false
}

// Project is a user-defined bucket that tracked sessions are attributed to.
// Projects are never deleted.
type Project struct {
	ID        int64
	Name      string
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProject creates an unsaved project. An empty status defaults to WIP.
func NewProject(name string, status ProjectStatus) Project {
	if status == "" {
		status = StatusWIP
	}
	return Project{
		Name:   strings.TrimSpace(name),
		Status: status,
	}
}

// IsValid checks if the project has valid data.
func (p Project) IsValid() bool {
	return strings.TrimSpace(p.Name) != "" && p.Status.IsValid()
}

// String returns "name (status)", the form used in project pickers.
func (p Project) String() string {
	return p.Name + " (" + string(p.Status) + ")"
}
