// Package buildinfo carries the version stamp that release builds
// override through -ldflags.
package buildinfo

import "fmt"

var (
	// Version is the zbxctl release version.
	Version = "0.3.0"
	// Commit is the short VCS revision the binary was built from.
	Commit = "dev"
)

// UserAgent returns the User-Agent value sent with every API request.
func UserAgent() string {
	return fmt.Sprintf("zbxctl/%s", Version)
}

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("zbxctl %s (%s)", Version, Commit)
}
