package services

import (
	"log/slog"

	"app-time-tracker/internal/clock"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"
)

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo sqlite.Repository, cfg *config.Config, p probe.Probe, clk clock.Clock, logger *slog.Logger) *ServiceContainer {
	reporting := NewReportingService(repo, cfg, logger)
	return &ServiceContainer{
		ProjectService:   NewProjectService(repo, cfg),
		ReportingService: reporting,
		TrackingService:  NewTrackingService(repo, cfg, p, clk, reporting, logger),
	}
}
