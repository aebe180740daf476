package main

import (
	"fmt"
	"io"
	"log/slog"

	"app-time-tracker/internal/api"
	"app-time-tracker/internal/config"
)

// openAPI wires the SQLite repository and the window probe described by cfg.
// The repository is returned as the closer.
func openAPI(cfg *config.Config, logger *slog.Logger) (api.API, io.Closer, error) {
	p, err := config.CreateProbe(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating window probe: %w", err)
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating repository: %w", err)
	}

	logger.Debug("database opened", "path", cfg.GetDatabasePath())
	return api.NewWithConfig(repo, cfg, p, logger), repo, nil
}
