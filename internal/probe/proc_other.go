//go:build !linux

package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PSNamer resolves process names with ps(1).
type PSNamer struct {
	timeout time.Duration
}

// NewProcessNamer returns a namer backed by ps.
func NewProcessNamer() ProcessNamer {
	return &PSNamer{timeout: time.Second}
}

// ProcessName returns the name of pid, or ErrProcessGone when ps no
// longer lists it.
func (n *PSNamer) ProcessName(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ps", "-p", strconv.Itoa(pid), "-o", "comm=").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrProcessGone
		}
		return "", err
	}

	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", ErrProcessGone
	}
	return filepath.Base(name), nil
}
