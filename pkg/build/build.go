// SPDX-License-Identifier: MIT
//
// Package build exposes the application name, version, Git commit, and
// build timestamp embedded at compile time with -ldflags. Development
// builds without linker flags fall back to placeholder values.
package build

import "fmt"

// Info holds the metadata for one binary.
type Info struct {
	Name    string
	Version string
	Commit  string
	Time    string
}

// Populated by -ldflags at link time, e.g.
//
//	-X liveshift/pkg/build.buildName=liveshift
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
)

// Get returns the build metadata, substituting development placeholders
// for any flag the linker did not set.
func Get() Info {
	return Info{
		Name:    orDefault(buildName, "liveshift"),
		Version: orDefault(buildVersion, "dev"),
		Commit:  orDefault(buildCommit, "unknown"),
		Time:    orDefault(buildTime, "unknown"),
	}
}

// String formats the metadata as a single version line.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s, built %s)", i.Name, i.Version, i.Commit, i.Time)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
