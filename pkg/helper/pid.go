package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultPIDPath is used when no pid file is configured
const DefaultPIDPath = "/var/run/eliteshop.pid"

// GetPIDPath resolves the pid file location. Relative names resolve against
// the working directory when their parent directory exists.
func GetPIDPath(filename string) string {
	if filename == "" {
		return DefaultPIDPath
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return DefaultPIDPath
	}
	abs, err := filepath.Abs(filepath.Join(cwd, filename))
	if err != nil {
		return DefaultPIDPath
	}
	if _, err := os.Stat(filepath.Dir(abs)); err != nil {
		return DefaultPIDPath
	}
	return abs
}

// WritePIDFile writes the current process id and returns a func removing it
func WritePIDFile(path string) (func(), error) {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return func() {}, fmt.Errorf("failed to write pid file %s: %w", path, err)
	}
	return func() { _ = os.Remove(path) }, nil
}
