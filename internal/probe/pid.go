package probe

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	apperrors "app-time-tracker/internal/errors"
)

// ErrProcessGone is returned by a ProcessNamer when the process exited or
// cannot be inspected. PIDProbe treats it as no foreground application.
var ErrProcessGone = errors.New("process gone or inaccessible")

// ProcessNamer resolves a process id to its executable name.
type ProcessNamer interface {
	ProcessName(pid int) (string, error)
}

// PIDProbe runs a command printing the focused window's process id and
// resolves it to a process name.
type PIDProbe struct {
	command *CommandProbe
	namer   ProcessNamer
}

// NewPIDProbe combines a pid-printing command with a namer.
func NewPIDProbe(command *CommandProbe, namer ProcessNamer) *PIDProbe {
	return &PIDProbe{command: command, namer: namer}
}

// Sample resolves the current foreground process.
func (p *PIDProbe) Sample(ctx context.Context) (Sample, error) {
	line, err := p.command.run(ctx)
	if err != nil || line == "" {
		return None, err
	}

	pid, err := strconv.Atoi(line)
	if err != nil || pid <= 0 {
		return None, apperrors.NewProbeError(p.command.name, fmt.Errorf("unexpected pid %q", line))
	}

	name, err := p.namer.ProcessName(pid)
	if err != nil {
		if errors.Is(err, ErrProcessGone) {
			return None, nil
		}
		return None, apperrors.NewProbeError("process lookup", err)
	}
	return App(name), nil
}
