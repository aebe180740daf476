package config

import (
	"fmt"

	"app-time-tracker/internal/probe"
)

// ProbeOptions maps the tracking section onto probe options.
func (c *Config) ProbeOptions() probe.Options {
	return probe.Options{
		Command: c.ProbeArgs(),
		Output:  probe.Output(c.Tracking.ProbeOutput),
		Timeout: c.Tracking.ProbeTimeout,
	}
}

// CreateProbe builds the window probe described by the configuration
func CreateProbe(config *Config) (probe.Probe, error) {
	p, err := probe.New(config.ProbeOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create window probe: %w", err)
	}
	return p, nil
}
