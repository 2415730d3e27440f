package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ManifestFilename is the only file name accepted as a package manifest.
const ManifestFilename = "Cargo.toml"

// ValidateManifestPath checks that path names a Cargo manifest.
// An empty path is valid and means "discover from the working directory".
func ValidateManifestPath(path string) error {
	if path == "" {
		return nil
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "manifest path contains invalid characters")
		}
	}
	if filepath.Base(path) != ManifestFilename {
		return New(ErrCodeInvalidPath, "manifest path must point to a %s file: %s", ManifestFilename, path)
	}
	return nil
}

// crateNameRegex matches names accepted by cargo for packages and
// dependency keys.
var crateNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateCrateName validates a crate name taken from user configuration.
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCrateName, "crate name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidCrateName, "crate name too long (max 64 characters): %q", name)
	}
	if strings.ContainsAny(name, " \t\r\n") || !crateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCrateName, "invalid crate name: %q", name)
	}
	return nil
}
