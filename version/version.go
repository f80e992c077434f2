// Package version reports build information for the autobuild binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/teranos/autobuild/manifest"
)

// Build information, set at build time via ldflags.
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information.
type Info struct {
	Version        string `json:"version"`
	CommitHash     string `json:"commit_hash"`
	BuildTime      string `json:"build_time"`
	ManifestSchema string `json:"manifest_schema"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
}

// Get returns the current version information. Binaries installed with
// go install carry their module version instead of ldflags.
func Get() Info {
	info := Info{
		Version:        Version,
		CommitHash:     CommitHash,
		BuildTime:      BuildTime,
		ManifestSchema: manifest.SupportedSchema,
		GoVersion:      runtime.Version(),
		Platform:       fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("autobuild %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
