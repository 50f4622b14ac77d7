package cli

import (
	"fmt"
	"runtime"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// versionString is the text shown by --version after the program name.
func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		formatVersion(version), commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = versionString()
}
