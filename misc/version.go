// Package misc carries build identity shared across the program.
package misc

import "runtime/debug"

// set by the build with -ldflags "-X flexgrid/misc.version=... -X flexgrid/misc.gitHash=..."
var (
	appName = "flexgrid"
	version = "development"
	gitHash = ""
)

// GetAppName returns program name used for logs, reports and temp files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision the program was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
