// Package utils holds small filesystem helpers shared by cmd/spadesd.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDirExists creates datadir and its logs subdirectory if they
// don't already exist, the same layout the teacher's cmd/pokersrv expects
// under its data directory.
func EnsureDataDirExists(datadir string) error {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return fmt.Errorf("failed to create datadir %s: %v", datadir, err)
	}

	logsDir := filepath.Join(datadir, "logs")
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %v", logsDir, err)
	}

	return nil
}
