// Package version reports the augustinus build version.
package version

import "runtime/debug"

// Set at build time:
//
//	go build -ldflags "-X augustinus/internal/version.version=v1.2.0 -X augustinus/internal/version.commit=$(git rev-parse HEAD)"
var (
	version = "dev" //nolint:gochecknoglobals // ldflags requires package-level var
	commit  = ""    //nolint:gochecknoglobals // ldflags requires package-level var
)

// String returns the version, with a short commit hash when one is known.
// Builds installed with go install report their module version.
func String() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if c := shortCommit(commit); c != "" {
		return v + " (" + c + ")"
	}
	return v
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
