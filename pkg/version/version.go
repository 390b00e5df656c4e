// Package version carries the build identity of the tsfix binary.
package version

import (
	"runtime/debug"
)

const unknown = "unknown"

// Set by the linker: -X github.com/Sumatoshi-tech/tsfix/pkg/version.Version=v1.2.3.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Commit and Date from the embedded VCS build info
// when the linker did not set them, and Version from the module version when
// installed with go install.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown && setting.Value != "" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}

// String formats the full build identity.
func String() string {
	return Version + " (commit " + short(Commit) + ", built " + Date + ")"
}

func short(commit string) string {
	const shortHash = 12

	if len(commit) > shortHash {
		return commit[:shortHash]
	}

	return commit
}
