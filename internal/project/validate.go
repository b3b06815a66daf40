// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Violation codes. They double as message ID suffixes for localization.
const (
	CodeIdentifier  = "identifier"
	CodeRange       = "range"
	CodeOrder       = "order"
	CodeRequired    = "required"
	CodeShrink      = "shrink"
	CodeMissingFile = "missing_file"
)

// Violation is a single configuration problem.
type Violation struct {
	Field  string
	Code   string
	Detail string
}

func (v Violation) String() string { return v.Field + ": " + v.Detail }

// ValidationError lists every violation found by Validate.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "invalid packaging configuration: " + strings.Join(parts, "; ")
}

var javaIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isPackageName(s string) bool {
	segs := strings.Split(s, ".")
	if len(segs) < 2 {
		return false
	}
	for _, seg := range segs {
		if !javaIdent.MatchString(seg) {
			return false
		}
	}
	return true
}

// Validate checks c and reports every problem at once. Project-local ProGuard
// files are resolved against root; SDK-provided ones are skipped.
func Validate(fsys afero.Fs, root string, c Config) error {
	var vs []Violation
	add := func(field, code, detail string) {
		vs = append(vs, Violation{Field: field, Code: code, Detail: detail})
	}

	if !isPackageName(c.Namespace) {
		add("namespace", CodeIdentifier, fmt.Sprintf("%q is not a valid package name", c.Namespace))
	}
	if !isPackageName(c.ApplicationID) {
		add("applicationId", CodeIdentifier, fmt.Sprintf("%q is not a valid package name", c.ApplicationID))
	}

	if c.MinSdk < 1 {
		add("minSdk", CodeRange, fmt.Sprintf("%d is below 1", c.MinSdk))
	}
	if c.TargetSdk != 0 && c.MinSdk > c.TargetSdk {
		add("targetSdk", CodeOrder, fmt.Sprintf("minSdk %d exceeds targetSdk %d", c.MinSdk, c.TargetSdk))
	}
	if c.CompileSdk != 0 && c.TargetSdk > c.CompileSdk {
		add("compileSdk", CodeOrder, fmt.Sprintf("targetSdk %d exceeds compileSdk %d", c.TargetSdk, c.CompileSdk))
	}

	if c.VersionCode <= 0 {
		add("versionCode", CodeRange, fmt.Sprintf("%d must be positive", c.VersionCode))
	}
	if c.VersionName == "" {
		add("versionName", CodeRequired, "version name is empty")
	}

	if c.Release.ShrinkResources && !c.Release.MinifyEnabled {
		add("release.shrinkResources", CodeShrink, "resource shrinking requires code minification")
	}
	if c.Release.MinifyEnabled {
		for _, f := range c.Release.ProguardFiles {
			if f == DefaultProguardFile || f == OptimizeProguardFile {
				continue
			}
			p := f
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			ok, err := afero.Exists(fsys, p)
			if err != nil || !ok {
				add("release.proguardFiles", CodeMissingFile, p+" does not exist")
			}
		}
	}

	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}
