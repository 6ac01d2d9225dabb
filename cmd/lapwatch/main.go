// Package main provides the CLI entry point for lapwatch.
package main

import (
	"os"
	"runtime/debug"

	"github.com/alexander-akhmetov/lapwatch/internal/cmd"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if info, ok := debug.ReadBuildInfo(); ok && version == "dev" {
		version, commit, date = versionFromBuildInfo(info)
	}
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionFromBuildInfo fills in version details for binaries built without
// ldflags. `go install ...@vX` records the module version; local builds only
// carry VCS settings.
func versionFromBuildInfo(info *debug.BuildInfo) (v, c, d string) {
	v = "dev"
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}

	var revision string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			d = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	c = "unknown"
	if len(revision) >= 7 {
		c = revision[:7]
		if dirty {
			c += "-dirty"
		}
	}
	if d == "" {
		d = "unknown"
	}
	return v, c, d
}
