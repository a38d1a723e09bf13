package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative path and rejects it when it is empty,
// absolute, or still climbs out of its base directory after cleaning.
func SafeFilePath(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", false
	}
	cleaned := filepath.Clean(p)
	if climbs(cleaned) {
		return "", false
	}
	return cleaned, true
}

// SafeFilePathAllowAbsolute is SafeFilePath for paths that may also be
// absolute, such as config and schema files named on the command line.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	cleaned := filepath.Clean(p)
	if climbs(cleaned) {
		return "", false
	}
	return cleaned, true
}

// climbs reports whether any segment of p is "..". Backslashes count as
// separators so Windows-style traversal is rejected on every platform.
func climbs(p string) bool {
	segments := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, s := range segments {
		if s == ".." {
			return true
		}
	}
	return false
}
