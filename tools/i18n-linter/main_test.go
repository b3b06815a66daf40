// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestLint_FindsUndefinedMissingAndOrphaned(t *testing.T) {
	root := writeTree(t, map[string]string{
		"cmd.go": `package x
func f(code string) {
	_ = i18n.T("check.ok")
	_ = i18n.T("check.failed", 2)
	_ = i18n.T("validation." + code)
	_ = i18n.T("signing.unknown")
}
`,
		"cmd_test.go": `package x
func g() { _ = i18n.T("test.only") }
`,
		"internal/i18n/locales/active.en.yaml": "check.ok: ok\ncheck.failed: failed\nvalidation.range: r\nunused.key: u\n",
		"internal/i18n/locales/active.de.yaml": "check.ok: ok\nvalidation.range: r\nunused.key: u\n",
	})

	res, err := lint(root)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !reflect.DeepEqual(res.Undefined, []string{"signing.unknown"}) {
		t.Fatalf("unexpected undefined keys %v", res.Undefined)
	}
	if !reflect.DeepEqual(res.Missing["active.de.yaml"], []string{"check.failed"}) {
		t.Fatalf("unexpected missing keys %v", res.Missing)
	}
	if !reflect.DeepEqual(res.Orphaned, []string{"unused.key"}) {
		t.Fatalf("unexpected orphans %v", res.Orphaned)
	}
	if !res.Failed() {
		t.Fatalf("expected failure")
	}
}

func TestLint_RepositoryLocalesAreConsistent(t *testing.T) {
	res, err := lint(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if res.Failed() {
		t.Fatalf("locale files inconsistent: undefined=%v missing=%v", res.Undefined, res.Missing)
	}
}
