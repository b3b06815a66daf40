// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
package cli

import (
	"runtime/debug"
	"testing"

	"github.com/storyfont/signcfg/buildvars"
)

func setBuildvars(t *testing.T, version, commit string) {
	t.Helper()
	v, c := buildvars.Version, buildvars.Commit
	t.Cleanup(func() { buildvars.Version, buildvars.Commit = v, c })
	buildvars.Version, buildvars.Commit = version, commit
}

func TestBuildFrom_NoInfo(t *testing.T) {
	setBuildvars(t, "", "")
	b := buildFrom(nil)
	if b.Version != "dev" || b.Commit != "" || b.Date != "" {
		t.Fatalf("expected bare dev build, got %+v", b)
	}
	if b.String() != "dev" {
		t.Fatalf("expected dev got %q", b.String())
	}
}

func TestBuildFrom_ModuleVersionAndVCS(t *testing.T) {
	setBuildvars(t, "", "")
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123def4567890"},
			{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	b := buildFrom(info)
	if b.Version != "v1.2.3" {
		t.Fatalf("expected v1.2.3 got %s", b.Version)
	}
	if b.Commit != "abc123def456-dirty" {
		t.Fatalf("expected short dirty revision got %s", b.Commit)
	}
	if got := b.String(); got != "v1.2.3 (abc123def456-dirty) built: 2026-10-01T10:00:00Z" {
		t.Fatalf("unexpected version string %q", got)
	}
}

func TestBuildFrom_LinkerValuesWin(t *testing.T) {
	setBuildvars(t, "v2.0.0", "cafe01")
	info := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "true"}},
	}
	b := buildFrom(info)
	if b.Version != "v2.0.0" || b.Commit != "cafe01" {
		t.Fatalf("expected linker values, got %+v", b)
	}
}

func TestBuildFrom_DevelVersionStaysDev(t *testing.T) {
	setBuildvars(t, "", "")
	b := buildFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if b.Version != "dev" {
		t.Fatalf("expected dev got %s", b.Version)
	}
}
