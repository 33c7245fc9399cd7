package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/mdrender/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by `mdrender --version`.
func String() string {
	return fmt.Sprintf("mdrender %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
