// Package version holds build information injected at link time.
package version

import "runtime"

// Build information. Populated via -ldflags at build time:
//
//	-X github.com/jackzampolin/spine/version.GitRelease=v0.1.0
var (
	// GitRelease is the release tag or "dev" for local builds.
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""
	// GitCommitDate is the date of that commit.
	GitCommitDate = ""
	// GoInfo is the Go toolchain version.
	GoInfo = runtime.Version()
)
