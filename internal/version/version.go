// Package version holds build information for the quill binary.
package version

import "fmt"

// These variables are set at build time using ldflags.
// Example: go build -ldflags "-X github.com/pablasso/quill/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String formats the build information for `quill version`.
func String() string {
	return fmt.Sprintf("quill %s (commit %s, built %s)", Version, CommitSHA, BuildDate)
}
