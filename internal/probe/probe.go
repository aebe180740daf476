// Package probe reports which application currently owns the foreground
// window. Expected absences (no focused window, the owning process has
// exited or cannot be inspected) are reported as None without an error;
// only unexpected failures return one.
package probe

import (
	"context"
	"fmt"
	"time"
)

// Sample is the outcome of one probe: an application name, or None when no
// foreground application could be identified. Samples are comparable.
type Sample struct {
	App string
}

// None is the sample for "no foreground application".
var None = Sample{}

// App returns a sample naming app. An empty name is None.
func App(app string) Sample {
	return Sample{App: app}
}

// IsNone reports whether no application was identified.
func (s Sample) IsNone() bool {
	return s.App == ""
}

func (s Sample) String() string {
	if s.IsNone() {
		return "<none>"
	}
	return s.App
}

// Probe samples the foreground application.
type Probe interface {
	Sample(ctx context.Context) (Sample, error)
}

// Func adapts a function to the Probe interface.
type Func func(ctx context.Context) (Sample, error)

// Sample calls f.
func (f Func) Sample(ctx context.Context) (Sample, error) {
	return f(ctx)
}

// Output selects how the probe command's stdout is interpreted.
type Output string

const (
	// OutputName means the command prints the application name.
	OutputName Output = "name"
	// OutputPID means the command prints the focused window's process id,
	// which is resolved to a process name.
	OutputPID Output = "pid"
)

// Options configures New.
type Options struct {
	Command []string
	Output  Output
	Timeout time.Duration
}

// New builds the probe described by opts.
func New(opts Options) (Probe, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("probe command is empty")
	}

	command := NewCommandProbe(opts.Command, opts.Timeout)
	switch opts.Output {
	case OutputName, "":
		return command, nil
	case OutputPID:
		return NewPIDProbe(command, NewProcessNamer()), nil
	default:
		return nil, fmt.Errorf("unknown probe output %q", opts.Output)
	}
}
