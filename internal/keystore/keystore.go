// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keystore opens the release keystore named by resolved signing
// credentials and reports what the packaging stage will sign with. Only
// PKCS#12 stores are decoded; JKS and JCEKS are recognized and rejected.
package keystore

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	xpkcs12 "golang.org/x/crypto/pkcs12"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/signing"
)

// Inspection failures callers can branch on.
var (
	ErrUnsupportedFormat = errors.New("keystore: unsupported keystore format")
	ErrBadPassword       = errors.New("keystore: incorrect store password")
	ErrAliasNotFound     = errors.New("keystore: key alias not found")
)

const FormatPKCS12 = "PKCS12"

var (
	jksMagic   = []byte{0xFE, 0xED, 0xFE, 0xED}
	jceksMagic = []byte{0xCE, 0xCE, 0xCE, 0xCE}
)

// Report describes the signing entry found in a keystore.
type Report struct {
	Path          string    `json:"path" yaml:"path"`
	Format        string    `json:"format" yaml:"format"`
	Alias         string    `json:"alias" yaml:"alias"`
	AliasVerified bool      `json:"aliasVerified" yaml:"alias_verified"`
	Subject       string    `json:"subject" yaml:"subject"`
	Issuer        string    `json:"issuer" yaml:"issuer"`
	Serial        string    `json:"serial" yaml:"serial"`
	NotBefore     time.Time `json:"notBefore" yaml:"not_before"`
	NotAfter      time.Time `json:"notAfter" yaml:"not_after"`
	SHA1          string    `json:"sha1" yaml:"sha1"`
	SHA256        string    `json:"sha256" yaml:"sha256"`
	Warnings      []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Inspect opens c.StoreFile with the store password and checks it against the
// alias and key password. now is used for the validity warning.
func Inspect(fsys afero.Fs, c signing.Credentials, now time.Time) (Report, error) {
	r := Report{Path: c.StoreFile, Alias: c.KeyAlias}

	data, err := afero.ReadFile(fsys, c.StoreFile)
	if err != nil {
		return r, fmt.Errorf("open keystore %s: %w", c.StoreFile, err)
	}
	if f := DetectFormat(data); f != FormatPKCS12 {
		r.Format = f
		return r, fmt.Errorf("%s is %s: %w", c.StoreFile, f, ErrUnsupportedFormat)
	}
	r.Format = FormatPKCS12

	storePassword := c.StorePassword.Reveal()
	_, cert, _, err := pkcs12.DecodeChain(data, storePassword)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return r, fmt.Errorf("%s: %w", c.StoreFile, ErrBadPassword)
		}
		return r, fmt.Errorf("decode keystore %s: %w", c.StoreFile, err)
	}

	names := friendlyNames(data, storePassword)
	verified, found := matchAlias(names, c.KeyAlias)
	if !found {
		return r, fmt.Errorf("alias %q (entries: %s): %w", c.KeyAlias, strings.Join(names, ", "), ErrAliasNotFound)
	}
	r.AliasVerified = verified
	if !verified {
		r.Warnings = append(r.Warnings, "keystore carries no entry names, alias could not be verified")
	}

	if !c.KeyPassword.Equal(c.StorePassword) {
		r.Warnings = append(r.Warnings, "key password differs from store password; PKCS12 keystores protect the key with the store password")
	}

	r.Subject = cert.Subject.String()
	r.Issuer = cert.Issuer.String()
	r.Serial = cert.SerialNumber.String()
	r.NotBefore = cert.NotBefore
	r.NotAfter = cert.NotAfter
	r.SHA1, r.SHA256 = Fingerprints(cert)

	switch {
	case now.After(cert.NotAfter):
		r.Warnings = append(r.Warnings, fmt.Sprintf("certificate expired on %s", cert.NotAfter.Format(time.DateOnly)))
	case now.Before(cert.NotBefore):
		r.Warnings = append(r.Warnings, fmt.Sprintf("certificate is not valid before %s", cert.NotBefore.Format(time.DateOnly)))
	}
	for _, w := range r.Warnings {
		logging.Warnf("%s: %s", c.StoreFile, w)
	}
	return r, nil
}

// DetectFormat names the keystore type from its leading bytes.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jksMagic):
		return "JKS"
	case bytes.HasPrefix(data, jceksMagic):
		return "JCEKS"
	default:
		return FormatPKCS12
	}
}

// Fingerprints returns the SHA-1 and SHA-256 digests of the certificate in
// the colon-separated uppercase form keytool prints.
func Fingerprints(cert *x509.Certificate) (string, string) {
	s1 := sha1.Sum(cert.Raw)
	s256 := sha256.Sum256(cert.Raw)
	return colonHex(s1[:]), colonHex(s256[:])
}

func colonHex(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, ":")
}

// friendlyNames returns the entry names stored as PKCS#12 bag attributes. The
// legacy decoder is the only one exposing attributes; stores it cannot read
// (PBES2-protected ones written by recent keytool) yield nil.
func friendlyNames(data []byte, password string) []string {
	blocks, err := xpkcs12.ToPEM(data, password)
	if err != nil {
		logging.Debugf("entry names unavailable: %v", err)
		return nil
	}
	var names []string
	seen := map[string]bool{}
	for _, b := range blocks {
		n := b.Headers["friendlyName"]
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

// matchAlias reports whether alias is among names. keytool lowercases aliases,
// so the comparison ignores case. With no names at all the alias is accepted
// unverified.
func matchAlias(names []string, alias string) (verified, found bool) {
	if len(names) == 0 {
		return false, true
	}
	for _, n := range names {
		if strings.EqualFold(n, alias) {
			return true, true
		}
	}
	return false, false
}
