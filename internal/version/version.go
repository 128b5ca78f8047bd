// Package version exposes build metadata for the flint binary.
package version

import (
	"runtime"
	"runtime/debug"
)

// version is overridden at build time via
// -ldflags "-X github.com/fortlab/flint/internal/version.version=...".
var version = "dev"

// Version returns the current version string, including the VCS revision
// when available.
func Version() string {
	if rev := Revision(); rev != "" {
		return version + " (" + rev + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// Revision returns the short VCS revision from build info, if embedded.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}
