// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
package project

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

const root = "/app/android/app"

func validConfig() Config {
	c := Defaults()
	c.CompileSdk = 35
	c.TargetSdk = 35
	c.VersionCode = 7
	c.VersionName = "1.0.3"
	return c
}

func fsWithRules(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, root+"/proguard-rules.pro", []byte("-keep class io.flutter.** { *; }\n"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return fs
}

func TestDefaults_MatchReleaseBuildType(t *testing.T) {
	d := Defaults()
	if d.MinSdk != 23 || d.JavaVersion != 11 {
		t.Fatalf("unexpected defaults: minSdk=%d java=%d", d.MinSdk, d.JavaVersion)
	}
	if !d.Release.MinifyEnabled || !d.Release.ShrinkResources || !d.Release.MultiDexEnabled {
		t.Fatalf("release build type should minify, shrink and enable multidex: %+v", d.Release)
	}
	if len(d.Release.ProguardFiles) != 2 || d.Release.ProguardFiles[0] != OptimizeProguardFile {
		t.Fatalf("unexpected proguard files %v", d.Release.ProguardFiles)
	}
	if d.Release.SigningConfig != "release" {
		t.Fatalf("expected release signing config, got %q", d.Release.SigningConfig)
	}
}

func TestDefaultValues_Prefixed(t *testing.T) {
	m := DefaultValues("android")
	if m["android.min_sdk"] != 23 {
		t.Fatalf("expected android.min_sdk=23 got %v", m["android.min_sdk"])
	}
	if m["android.release.minify_enabled"] != true {
		t.Fatalf("expected android.release.minify_enabled=true got %v", m["android.release.minify_enabled"])
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(fsWithRules(t), root, validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	c := validConfig()
	c.ApplicationID = "storyfont"
	c.MinSdk = 36
	c.VersionCode = 0
	c.VersionName = ""
	c.Release.MinifyEnabled = false

	err := Validate(afero.NewMemMapFs(), root, c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
	codes := map[string]string{}
	for _, v := range ve.Violations {
		codes[v.Field] = v.Code
	}
	want := map[string]string{
		"applicationId":           CodeIdentifier,
		"targetSdk":               CodeOrder,
		"versionCode":             CodeRange,
		"versionName":             CodeRequired,
		"release.shrinkResources": CodeShrink,
	}
	for f, code := range want {
		if codes[f] != code {
			t.Fatalf("expected %s violation on %s, got %v", code, f, ve.Violations)
		}
	}
	// minify is off, so missing ProGuard files are not checked
	if _, ok := codes["release.proguardFiles"]; ok {
		t.Fatalf("proguard files should be skipped when minify is disabled")
	}
}

func TestValidate_MissingProguardFile(t *testing.T) {
	err := Validate(afero.NewMemMapFs(), root, validConfig())
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Violations) != 1 {
		t.Fatalf("expected exactly one violation, got %v", err)
	}
	if ve.Violations[0].Code != CodeMissingFile {
		t.Fatalf("expected missing_file, got %+v", ve.Violations[0])
	}
}

func TestValidate_CompileBelowTarget(t *testing.T) {
	c := validConfig()
	c.CompileSdk = 34
	err := Validate(fsWithRules(t), root, c)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Violations[0].Field != "compileSdk" {
		t.Fatalf("expected compileSdk violation, got %v", err)
	}
}

func TestParseVersion(t *testing.T) {
	name, code, err := ParseVersion("1.2.3+45")
	if err != nil || name != "1.2.3" || code != 45 {
		t.Fatalf("unexpected parse: %q %d %v", name, code, err)
	}
	name, code, err = ParseVersion("2.0.0")
	if err != nil || name != "2.0.0" || code != 0 {
		t.Fatalf("unexpected parse without build: %q %d %v", name, code, err)
	}
	if _, _, err := ParseVersion("1.0.0+x"); err == nil {
		t.Fatalf("expected error for non-numeric build number")
	}
}

func TestLoadFlutterValues_LocalPropertiesWin(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/app/android/local.properties", []byte("sdk.dir=/opt/android\nflutter.versionName=3.1.0\nflutter.versionCode=31\nflutter.compileSdkVersion=35\nflutter.targetSdkVersion=34\n"), 0o644)
	_ = afero.WriteFile(fs, "/app/pubspec.yaml", []byte("name: storyfont\nversion: 9.9.9+99\n"), 0o644)

	v, err := LoadFlutterValues(fs, "/app/android/local.properties", "/app/pubspec.yaml")
	if err != nil {
		t.Fatalf("LoadFlutterValues: %v", err)
	}
	if v.VersionName != "3.1.0" || v.VersionCode != 31 || v.CompileSdk != 35 || v.TargetSdk != 34 {
		t.Fatalf("unexpected values %+v", v)
	}
}

func TestLoadFlutterValues_PubspecFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/app/pubspec.yaml", []byte("name: storyfont\nversion: 1.4.0+12\n"), 0o644)

	v, err := LoadFlutterValues(fs, "/app/android/local.properties", "/app/pubspec.yaml")
	if err != nil {
		t.Fatalf("LoadFlutterValues: %v", err)
	}
	if v.VersionName != "1.4.0" || v.VersionCode != 12 {
		t.Fatalf("unexpected values %+v", v)
	}

	c := Defaults()
	c.VersionName = "override"
	merged := c.WithFlutter(v)
	if merged.VersionName != "override" || merged.VersionCode != 12 {
		t.Fatalf("explicit config should win over flutter values: %+v", merged)
	}
}

func TestLoadFlutterValues_BadInteger(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/lp", []byte("flutter.versionCode=abc\n"), 0o644)
	if _, err := LoadFlutterValues(fs, "/lp", ""); err == nil {
		t.Fatalf("expected error for non-integer versionCode")
	}
}
