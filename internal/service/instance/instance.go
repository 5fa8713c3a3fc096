package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// linuxCommLength is how many bytes of an executable name /proc/<pid>/stat reports on Linux.
const linuxCommLength = 15

// ErrAlreadyRunning is returned when another copy of the executable is running.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lister returns a snapshot of the process table.
type Lister func() ([]ps.Process, error)

// Executable returns the base name of the running binary.
func Executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}

	return filepath.Base(path), nil
}

// Others returns the PIDs of other processes running an executable named name.
func Others(name string) ([]int, error) {
	return others(ps.Processes, os.Getpid(), name)
}

// EnsureSingle fails with ErrAlreadyRunning if another copy of the current executable runs.
func EnsureSingle() error {
	name, err := Executable()
	if err != nil {
		return err
	}

	pids, err := Others(name)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if len(pids) > 0 {
		return fmt.Errorf("%w: %s (pid %v)", ErrAlreadyRunning, name, pids)
	}

	return nil
}

func others(list Lister, self int, name string) ([]int, error) {
	processList, err := list()
	if err != nil {
		return nil, err
	}

	var pids []int

	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}

// sameExecutable compares process names, allowing for the truncated names Linux reports.
func sameExecutable(reported, name string) bool {
	if reported == name {
		return true
	}

	return len(reported) == linuxCommLength && strings.HasPrefix(name, reported)
}
