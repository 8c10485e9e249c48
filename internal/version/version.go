// Package version provides version information for the crosscov CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/mod/semver"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// coverModule is the module providing the profile parser.
const coverModule = "golang.org/x/tools"

// Info contains version information.
type Info struct {
	// Version is the CLI version.
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// Platform is GOOS/GOARCH.
	Platform string `json:"platform"`

	// CoverVersion is the version of the cover profile parser, "unknown"
	// when build info is unavailable.
	CoverVersion string `json:"coverVersion"`
}

// Get returns the current version information. When no version was set via
// ldflags the main module version from the build info is used instead.
func Get() Info {
	info := Info{
		Version:      Version,
		GitCommit:    GitCommit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		CoverVersion: "unknown",
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if !IsRelease(info.Version) && IsRelease(bi.Main.Version) {
		info.Version = bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path == coverModule {
			info.CoverVersion = dep.Version
			break
		}
	}
	return info
}

// IsRelease reports whether v is a valid semantic version without a
// prerelease or build suffix.
func IsRelease(v string) bool {
	return semver.IsValid(v) && semver.Prerelease(v) == "" && semver.Build(v) == ""
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("crosscov version %s\n  Commit:    %s\n  Built:     %s\n  Go:        %s\n  Platform:  %s\n  Profiles:  %s %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform, coverModule, i.CoverVersion)
}
