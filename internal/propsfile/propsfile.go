// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// Package propsfile reads and writes Java-style .properties files the way the
// Android build reads them: ISO-8859-1 with \u escapes and no ${} expansion.
package propsfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
)

// ErrExists is returned by Write when the target exists and overwrite is off.
var ErrExists = errors.New("properties file already exists")

// Load reads path from fsys. A missing file yields an empty property set and
// found=false; it is not an error.
func Load(fsys afero.Fs, path string) (p *properties.Properties, found bool, err error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return properties.NewProperties(), false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	p, err = Parse(data)
	if err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, true, nil
}

// Parse decodes properties from data. data is read as ISO-8859-1 and an
// escaped UTF-16 surrogate pair decodes to a single rune.
func Parse(data []byte) (*properties.Properties, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	return l.LoadBytes([]byte(joinSurrogates(latin1(data))))
}

func latin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// joinSurrogates replaces every \uD800-\uDBFF\uDC00-\uDFFF escape pair
// with the rune it encodes. Other escapes are copied unchanged.
func joinSurrogates(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		if hi, ok := unicodeEscape(s, i); ok && utf16.IsSurrogate(hi) {
			if lo, ok := unicodeEscape(s, i+6); ok {
				if r := utf16.DecodeRune(hi, lo); r != unicode.ReplacementChar {
					b.WriteRune(r)
					i += 11
					continue
				}
			}
		}
		// keep the escaped character with its backslash so \\u stays literal
		b.WriteString(s[i : i+2])
		i++
	}
	return b.String()
}

// unicodeEscape decodes a \uXXXX escape starting at s[i].
func unicodeEscape(s string, i int) (rune, bool) {
	if i+6 > len(s) || s[i] != '\\' || s[i+1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i+2:i+6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// Entry is one key/value pair, written in slice order.
type Entry struct {
	Key   string
	Value string
}

// Write stores entries at path with mode 0600. The output is plain ASCII:
// characters outside 0x20-0x7E are written as \uXXXX escapes, using UTF-16
// surrogate pairs above U+FFFF, so any ISO-8859-1 reader gets the same values.
func Write(fsys afero.Fs, path string, entries []Entry, overwrite bool) error {
	if !overwrite {
		ok, err := afero.Exists(fsys, path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if ok {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(escape(e.Key, true))
		buf.WriteByte('=')
		buf.WriteString(escape(e.Value, false))
		buf.WriteByte('\n')
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// escape encodes s for a key or value position. Keys escape every space,
// values only a leading one.
func escape(s string, key bool) string {
	var b strings.Builder
	for i, u := range utf16.Encode([]rune(s)) {
		switch u {
		case ' ':
			if key || i == 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(' ')
		case '\\', '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteByte(byte(u))
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if u < 0x20 || u > 0x7e {
				fmt.Fprintf(&b, `\u%04X`, u)
				continue
			}
			b.WriteByte(byte(u))
		}
	}
	return b.String()
}
