package services

import (
	"regexp"
	"strings"
	"time"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Slugify lowercases name and replaces every non-alphanumeric character with
// an underscore. An empty name becomes "bill".
func Slugify(name string) string {
	if name == "" {
		name = "bill"
	}
	return strings.ToLower(nonAlphanumeric.ReplaceAllString(name, "_"))
}

// GenerateFileName builds <slug>_Bill_<YYYYMMDD>_<HHMMSS>.<ext> from the
// project name and the export time.
func GenerateFileName(projectName, ext string, now time.Time) string {
	return Slugify(projectName) + "_Bill_" + now.Format("20060102_150405") + "." + ext
}
