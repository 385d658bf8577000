package helper

import (
	"os"
	"path/filepath"
)

// ConfigDir is the system-wide directory searched last for config files
const ConfigDir = "/etc/eliteshop"

// GetCfgPath resolves a config filename.
//
// Absolute paths are returned as-is. Relative names are looked up in the
// working directory, then in ./configs, and finally under ConfigDir.
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	if found := lookupLocal(filename); found != "" {
		return found
	}

	return filepath.Join(ConfigDir, filename)
}

func lookupLocal(filename string) string {
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return ""
	}

	for _, candidate := range []string{
		filepath.Join(cwd, filename),
		filepath.Join(cwd, "configs", filename),
	} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return ""
}
