//go:build linux

package probe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// commMaxLen is the kernel's limit on /proc/<pid>/comm, excluding the
// trailing newline. Longer names are truncated.
const commMaxLen = 15

// ProcNamer reads process names from a procfs mount.
type ProcNamer struct {
	root string
}

// NewProcessNamer returns a namer reading /proc.
func NewProcessNamer() ProcessNamer {
	return &ProcNamer{root: "/proc"}
}

// ProcessName returns the name of pid. Exited processes and processes the
// caller may not inspect yield ErrProcessGone.
func (n *ProcNamer) ProcessName(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}

	if err := unix.Kill(pid, 0); err != nil {
		if errors.Is(err, unix.ESRCH) || errors.Is(err, unix.EPERM) {
			return "", ErrProcessGone
		}
		return "", fmt.Errorf("signal pid %d: %w", pid, err)
	}

	dir := filepath.Join(n.root, strconv.Itoa(pid))
	comm, err := os.ReadFile(filepath.Join(dir, "comm"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return "", ErrProcessGone
		}
		return "", err
	}

	name := strings.TrimSpace(string(comm))
	if len(name) >= commMaxLen {
		if full := argv0(dir); strings.HasPrefix(full, name) {
			name = full
		}
	}
	if name == "" {
		return "", ErrProcessGone
	}
	return name, nil
}

// argv0 returns the base name of the first cmdline argument, or "".
func argv0(dir string) string {
	cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil || len(cmdline) == 0 {
		return ""
	}
	first, _, _ := bytes.Cut(cmdline, []byte{0})
	return filepath.Base(string(first))
}
