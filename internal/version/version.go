// Package version reports build information stamped with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/gaochangyu/qrcode-positioning/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version.
	Version = "0.1.0"
	// BuildTime is the UTC time when the binary was built.
	BuildTime = "unknown"
	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)

// String returns the version with commit and build time.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
