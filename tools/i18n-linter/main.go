// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the source tree: every key
// passed to i18n.T must exist in the primary locale, every other locale must
// carry every primary key, and primary keys nothing uses are reported as
// orphans. Keys built as i18n.T("prefix." + code) count as used for the
// whole prefix.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "active.en.yaml"
)

var (
	keyCall    = regexp.MustCompile(`i18n\.T\("([a-z_]+(?:\.[a-z_]+)+)"`)
	prefixCall = regexp.MustCompile(`i18n\.T\("([a-z_]+\.)"\s*\+`)
)

// Result is the outcome of one lint run.
type Result struct {
	Undefined []string            // used in code, absent from the primary locale
	Missing   map[string][]string // locale file -> primary keys it lacks
	Orphaned  []string            // in the primary locale, never used
}

// Failed reports whether the run found errors. Orphans are warnings only.
func (r Result) Failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	res, err := lint(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(1)
	}
	for _, k := range res.Undefined {
		fmt.Printf("undefined: %s\n", k)
	}
	files := make([]string, 0, len(res.Missing))
	for f := range res.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range res.Missing[f] {
			fmt.Printf("missing in %s: %s\n", f, k)
		}
	}
	for _, k := range res.Orphaned {
		fmt.Printf("orphaned: %s\n", k)
	}
	if res.Failed() {
		os.Exit(1)
	}
	fmt.Println("locale files are consistent")
}

func lint(root string) (Result, error) {
	res := Result{Missing: map[string][]string{}}

	used, prefixes, err := findUsedKeys(root)
	if err != nil {
		return res, err
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeys(filepath.Join(dir, primaryLocale))
	if err != nil {
		return res, fmt.Errorf("load primary locale: %w", err)
	}

	for k := range used {
		if _, ok := primary[k]; !ok {
			res.Undefined = append(res.Undefined, k)
		}
	}
	sort.Strings(res.Undefined)

	for k := range primary {
		if _, ok := used[k]; ok || hasPrefix(k, prefixes) {
			continue
		}
		res.Orphaned = append(res.Orphaned, k)
	}
	sort.Strings(res.Orphaned)

	others, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return res, err
	}
	for _, f := range others {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeys(f)
		if err != nil {
			return res, fmt.Errorf("load %s: %w", f, err)
		}
		var missing []string
		for k := range primary {
			if _, ok := keys[k]; !ok {
				missing = append(missing, k)
			}
		}
		sort.Strings(missing)
		res.Missing[filepath.Base(f)] = missing
	}
	return res, nil
}

func hasPrefix(k string, prefixes map[string]struct{}) bool {
	for p := range prefixes {
		if strings.HasPrefix(k, p) {
			return true
		}
	}
	return false
}

// findUsedKeys scans non-test Go files outside tools/ for i18n.T calls.
func findUsedKeys(root string) (keys, prefixes map[string]struct{}, err error) {
	keys = map[string]struct{}{}
	prefixes = map[string]struct{}{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyCall.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		for _, m := range prefixCall.FindAllStringSubmatch(string(content), -1) {
			prefixes[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, prefixes, err
}

func loadKeys(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(raw))
	for k := range raw {
		keys[k] = struct{}{}
	}
	return keys, nil
}
