package utils

import (
	"regexp"
	"strings"
)

const googleContentBase = "https://lh3.googleusercontent.com/d/"

var (
	driveFilePath  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveFileQuery = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// NormalizeImageURL rewrites Google Drive share links to a direct image URL.
// Anything else is returned unchanged, so applying it twice is a no-op.
func NormalizeImageURL(url string) string {
	if url == "" || !strings.Contains(url, "drive.google.com") {
		return url
	}

	if m := driveFilePath.FindStringSubmatch(url); m != nil {
		return googleContentBase + m[1] + "=s0"
	}
	if m := driveFileQuery.FindStringSubmatch(url); m != nil {
		return googleContentBase + m[1] + "=s0"
	}
	return url
}

// NormalizeImageURLs applies NormalizeImageURL to each entry, dropping blanks
func NormalizeImageURLs(urls []string) []string {
	out := CompactStrings(urls)
	for i, u := range out {
		out[i] = NormalizeImageURL(u)
	}
	return out
}
