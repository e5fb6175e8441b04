package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength matches the length of `git rev-parse --short`.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go runtime.
func Full() string {
	commit, built := resolveBuildInfo(debug.ReadBuildInfo)

	return fmt.Sprintf(
		"alarm-clock version: %s, commit: %s, built at: %s, go: %s",
		Version,
		commit,
		built,
		runtime.Version(),
	)
}

// resolveBuildInfo falls back to VCS settings recorded by the Go toolchain
// when ldflags did not provide the commit or build time.
func resolveBuildInfo(read func() (*debug.BuildInfo, bool)) (commit, built string) {
	commit, built = Commit, BuildTime
	if commit != "none" && built != "unknown" {
		return commit, built
	}

	info, ok := read()
	if !ok {
		return commit, built
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "none" && setting.Value != "" {
				commit = setting.Value
				if len(commit) > shortCommitLength {
					commit = commit[:shortCommitLength]
				}
			}
		case "vcs.time":
			if built == "unknown" && setting.Value != "" {
				built = setting.Value
			}
		}
	}

	return commit, built
}
