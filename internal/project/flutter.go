// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package project

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/propsfile"
)

// Keys the Flutter tool writes into android/local.properties.
const (
	flutterVersionCode = "flutter.versionCode"
	flutterVersionName = "flutter.versionName"
	flutterCompileSdk  = "flutter.compileSdkVersion"
	flutterTargetSdk   = "flutter.targetSdkVersion"
	flutterMinSdk      = "flutter.minSdkVersion"
)

// FlutterValues are the values the Flutter tool owns and hands to the Android
// build. They are treated as opaque: read, never derived.
type FlutterValues struct {
	VersionCode int
	VersionName string
	CompileSdk  int
	TargetSdk   int
	MinSdk      int
}

type pubspec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoadFlutterValues reads local.properties and, for whatever version fields
// it does not carry, pubspec.yaml. Either file may be absent.
func LoadFlutterValues(fsys afero.Fs, localProps, pubspecPath string) (FlutterValues, error) {
	var v FlutterValues

	if localProps != "" {
		p, err := readProperties(fsys, localProps)
		if err != nil {
			return v, err
		}
		if p != nil {
			if v.VersionCode, err = intProperty(p, flutterVersionCode); err != nil {
				return v, fmt.Errorf("%s: %w", localProps, err)
			}
			v.VersionName = p.GetString(flutterVersionName, "")
			if v.CompileSdk, err = intProperty(p, flutterCompileSdk); err != nil {
				return v, fmt.Errorf("%s: %w", localProps, err)
			}
			if v.TargetSdk, err = intProperty(p, flutterTargetSdk); err != nil {
				return v, fmt.Errorf("%s: %w", localProps, err)
			}
			if v.MinSdk, err = intProperty(p, flutterMinSdk); err != nil {
				return v, fmt.Errorf("%s: %w", localProps, err)
			}
		}
	}

	if (v.VersionCode == 0 || v.VersionName == "") && pubspecPath != "" {
		name, code, err := readPubspecVersion(fsys, pubspecPath)
		if err != nil {
			return v, err
		}
		if v.VersionName == "" {
			v.VersionName = name
		}
		if v.VersionCode == 0 {
			v.VersionCode = code
		}
	}
	return v, nil
}

func readProperties(fsys afero.Fs, path string) (*properties.Properties, error) {
	p, found, err := propsfile.Load(fsys, path)
	if err != nil {
		return nil, err
	}
	if !found {
		logging.Debugf("%s not found, no flutter pass-through values", path)
		return nil, nil
	}
	return p, nil
}

func intProperty(p *properties.Properties, key string) (int, error) {
	s, ok := p.Get(key)
	if !ok || strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, s)
	}
	return n, nil
}

func readPubspecVersion(fsys afero.Fs, path string) (string, int, error) {
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if !ok {
		logging.Debugf("%s not found, version left unset", path)
		return "", 0, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	var ps pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return "", 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return ParseVersion(ps.Version)
}

// ParseVersion splits a pubspec version ("1.2.3+45") into its name and build
// number. A version without a build number yields code 0.
func ParseVersion(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0, nil
	}
	name, build, found := strings.Cut(s, "+")
	if !found {
		return name, 0, nil
	}
	code, err := strconv.Atoi(build)
	if err != nil {
		return "", 0, fmt.Errorf("version %q: build number %q is not an integer", s, build)
	}
	return name, code, nil
}
