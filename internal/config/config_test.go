package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	cfg "github.com/storyfont/signcfg/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	return tmp
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	got, used, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if used != "" {
		t.Fatalf("expected no config file, got %s", used)
	}
	if got.Project.PropertiesFile != "key.properties" {
		t.Fatalf("expected key.properties got %q", got.Project.PropertiesFile)
	}
	if got.Android.MinSdk != 23 || !got.Android.Release.MinifyEnabled {
		t.Fatalf("android defaults not applied: %+v", got.Android)
	}
	if len(got.Android.Plugins) != 4 {
		t.Fatalf("expected 4 default plugins got %v", got.Android.Plugins)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	yaml := "language: de\nandroid:\n  min_sdk: 26\n  version_name: 2.0.0\n  release:\n    shrink_resources: false\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, used, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil, &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if used != file {
		t.Fatalf("expected %s used, got %s", file, used)
	}
	if got.Language != "de" || got.Android.MinSdk != 26 || got.Android.VersionName != "2.0.0" {
		t.Fatalf("file values not applied: %+v", got)
	}
	if got.Android.Release.ShrinkResources {
		t.Fatalf("expected shrink_resources=false from file")
	}
	if !got.Android.Release.MinifyEnabled {
		t.Fatalf("unset keys should keep their defaults")
	}
}

func TestLoadConfig_EnvAndFlags(t *testing.T) {
	isolate(t)
	t.Setenv("SIGNCFG_OUTPUT_FORMAT", "json")
	t.Setenv("SIGNCFG_ANDROID_TARGET_SDK", "35")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("properties", "key.properties", "")
	if err := fs.Parse([]string{"--properties", "ci.properties"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	got, _, err := cfg.LoadConfig[cfg.Config](fs, cfg.Defaults(), map[string]string{
		"properties": "project.properties_file",
		"absent":     "project.root",
	}, nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Output.Format != "json" {
		t.Fatalf("expected env format json got %q", got.Output.Format)
	}
	if got.Android.TargetSdk != 35 {
		t.Fatalf("expected env target sdk 35 got %d", got.Android.TargetSdk)
	}
	if got.Project.PropertiesFile != "ci.properties" {
		t.Fatalf("expected flag value ci.properties got %q", got.Project.PropertiesFile)
	}
	if got.Project.Root != "." {
		t.Fatalf("expected default root, got %q", got.Project.Root)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "bad.yaml")
	if err := os.WriteFile(file, []byte("android: [\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, _, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil, &file); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	isolate(t)
	c, _, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	c.Android.VersionCode = 12

	path, err := cfg.WriteConfigFile(&c, false)
	if err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600 got %v", fi.Mode().Perm())
	}

	again, used, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if used != path {
		t.Fatalf("expected %s to be discovered, got %q", path, used)
	}
	if again.Android.VersionCode != 12 {
		t.Fatalf("expected version code 12 after reload, got %d", again.Android.VersionCode)
	}
}
