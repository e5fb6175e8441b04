package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning indicates another process with the same executable name exists.
var ErrAlreadyRunning = errors.New("another instance is already running")

// ProcessLister returns the processes running on the host.
type ProcessLister func() ([]ps.Process, error)

// Guard checks for other processes of one executable.
type Guard struct {
	// list enumerates processes; ps.Processes in production.
	list ProcessLister
	// name is the executable name to look for.
	name string
	// pid is the process ID to ignore, normally our own.
	pid int
}

// NewGuard returns a guard for the given executable name.
// An empty name means the name of the running executable.
func NewGuard(name string) *Guard {
	if name == "" {
		name = filepath.Base(os.Args[0])
	}

	return &Guard{
		list: ps.Processes,
		name: name,
		pid:  os.Getpid(),
	}
}

// WithLister replaces the process lister, for tests.
func (g *Guard) WithLister(list ProcessLister) *Guard {
	g.list = list

	return g
}

// Check returns ErrAlreadyRunning when another process with the guarded
// executable name is alive.
func (g *Guard) Check() error {
	processes, err := g.list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processes {
		if process.Pid() == g.pid {
			continue
		}

		if sameExecutable(runtime.GOOS, process.Executable(), g.name) {
			return fmt.Errorf("%s (pid %d): %w", g.name, process.Pid(), ErrAlreadyRunning)
		}
	}

	return nil
}

// Kernel process name limits. Linux keeps 15 bytes of the name in
// /proc/<pid>/stat, macOS keeps MAXCOMLEN (16) in kinfo_proc.
const (
	linuxCommLength  = 15
	darwinCommLength = 16
)

// sameExecutable reports whether a process name from the process list
// belongs to the executable name. Case and the .exe suffix are ignored on Windows; on Linux
// and macOS the name is cut to the kernel limit before comparing.
func sameExecutable(goos, reported, name string) bool {
	switch goos {
	case "windows":
		trim := func(s string) string {
			return strings.TrimSuffix(strings.ToLower(s), ".exe")
		}

		return trim(reported) == trim(name)
	case "linux":
		return reported == truncateName(name, linuxCommLength)
	case "darwin":
		return reported == truncateName(name, darwinCommLength)
	default:
		return reported == name
	}
}

// truncateName cuts name to at most limit bytes.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}

	return name[:limit]
}
