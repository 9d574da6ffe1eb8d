// SPDX-License-Identifier: MIT
package build

import (
	"strings"
	"testing"
)

func TestGetUsesDevelopmentDefaults(t *testing.T) {
	origName, origVersion := buildName, buildVersion
	defer func() { buildName, buildVersion = origName, origVersion }()

	buildName, buildVersion = "", ""
	info := Get()
	if info.Name != "liveshift" {
		t.Errorf("Name = %q, want liveshift", info.Name)
	}
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
}

func TestGetPrefersLinkerValues(t *testing.T) {
	origVersion, origCommit := buildVersion, buildCommit
	defer func() { buildVersion, buildCommit = origVersion, origCommit }()

	buildVersion = "v1.2.3"
	buildCommit = "abcdef1"
	info := Get()
	if info.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", info.Version)
	}
	if info.Commit != "abcdef1" {
		t.Errorf("Commit = %q, want abcdef1", info.Commit)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Name: "liveshift", Version: "v1.0.0", Commit: "abc", Time: "2026-01-01"}
	s := info.String()
	for _, part := range []string{"liveshift", "v1.0.0", "abc", "2026-01-01"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}
