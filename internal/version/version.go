// Package version holds build metadata set through -ldflags.
package version

import "fmt"

// Name is the product name shown in the UI and the version command.
const Name = "Apricodi Builder"

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Info returns the build metadata for the version endpoint.
func Info() map[string]string {
	return map[string]string{
		"name":       Name,
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}
}

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, GitCommit, BuildTime)
}
