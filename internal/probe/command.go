package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	apperrors "app-time-tracker/internal/errors"
)

// waitDelay bounds how long Run waits for output pipes after the command
// is killed, since grandchildren may still hold them open.
const waitDelay = 250 * time.Millisecond

// CommandProbe runs an external command and reads the application from
// the first line of its stdout. A non-zero exit or empty output means no
// foreground window; xdotool, for one, exits 1 when nothing has focus.
type CommandProbe struct {
	name    string
	args    []string
	timeout time.Duration
}

// NewCommandProbe returns a probe running argv. A non-positive timeout
// leaves the deadline to the caller's context.
func NewCommandProbe(argv []string, timeout time.Duration) *CommandProbe {
	return &CommandProbe{name: argv[0], args: argv[1:], timeout: timeout}
}

// Sample runs the command once.
func (p *CommandProbe) Sample(ctx context.Context) (Sample, error) {
	line, err := p.run(ctx)
	if err != nil || line == "" {
		return None, err
	}
	return App(line), nil
}

// run returns the first non-empty output line. Expected absences return
// an empty line and no error.
func (p *CommandProbe) run(ctx context.Context) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, p.name, p.args...) // #nosec G204 -- command comes from the user's own configuration
	cmd.Stdout = &stdout
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewProbeError(p.name, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", apperrors.NewProbeError(p.name, err)
	}

	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", nil
}
