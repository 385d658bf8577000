package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var Version string

// Get returns the release version of the eliteshop binary.
func Get() string {
	return strings.TrimSpace(Version)
}
