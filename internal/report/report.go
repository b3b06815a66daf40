// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// Package report turns resolved configuration into the artifact handed to the
// packaging stage, rendered as JSON, YAML or styled text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/storyfont/signcfg/internal/keystore"
	"github.com/storyfont/signcfg/internal/project"
	"github.com/storyfont/signcfg/internal/security"
	"github.com/storyfont/signcfg/internal/signing"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SigningConfig is the signing block as the packaging stage consumes it.
type SigningConfig struct {
	Name          string `json:"name" yaml:"name"`
	KeyAlias      string `json:"keyAlias" yaml:"key_alias"`
	KeyPassword   string `json:"keyPassword" yaml:"key_password"`
	StoreFile     string `json:"storeFile" yaml:"store_file"`
	StorePassword string `json:"storePassword" yaml:"store_password"`
}

// BuildConfig is the full release configuration. Android is omitted when only
// the signing block was requested.
type BuildConfig struct {
	SigningConfig SigningConfig   `json:"signingConfig" yaml:"signing_config"`
	Android       *project.Config `json:"android,omitempty" yaml:"android,omitempty"`
}

// FromCredentials builds the signing block. Passwords are redacted unless
// showSecrets is set.
func FromCredentials(name string, c signing.Credentials, showSecrets bool) SigningConfig {
	pw := func(s security.Secret) string {
		if showSecrets {
			return s.Reveal()
		}
		return s.Redacted()
	}
	return SigningConfig{
		Name:          name,
		KeyAlias:      c.KeyAlias,
		KeyPassword:   pw(c.KeyPassword),
		StoreFile:     c.StoreFile,
		StorePassword: pw(c.StorePassword),
	}
}

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(20)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Render writes cfg to w in format.
func Render(w io.Writer, format string, cfg BuildConfig) error {
	switch format {
	case FormatJSON, FormatYAML:
		return encode(w, format, cfg)
	case FormatText:
		var b strings.Builder
		s := cfg.SigningConfig
		section(&b, "signingConfigs."+s.Name)
		field(&b, "keyAlias", s.KeyAlias)
		field(&b, "keyPassword", s.KeyPassword)
		field(&b, "storeFile", s.StoreFile)
		field(&b, "storePassword", s.StorePassword)
		if a := cfg.Android; a != nil {
			section(&b, "defaultConfig")
			field(&b, "namespace", a.Namespace)
			field(&b, "applicationId", a.ApplicationID)
			field(&b, "minSdk", strconv.Itoa(a.MinSdk))
			field(&b, "targetSdk", strconv.Itoa(a.TargetSdk))
			field(&b, "compileSdk", strconv.Itoa(a.CompileSdk))
			field(&b, "ndkVersion", a.NdkVersion)
			field(&b, "javaVersion", strconv.Itoa(a.JavaVersion))
			field(&b, "versionCode", strconv.Itoa(a.VersionCode))
			field(&b, "versionName", a.VersionName)
			field(&b, "plugins", strings.Join(a.Plugins, ", "))
			field(&b, "flutterSource", a.FlutterSource)
			r := a.Release
			section(&b, "buildTypes."+r.Name)
			field(&b, "signingConfig", r.SigningConfig)
			field(&b, "minifyEnabled", strconv.FormatBool(r.MinifyEnabled))
			field(&b, "shrinkResources", strconv.FormatBool(r.ShrinkResources))
			field(&b, "multiDexEnabled", strconv.FormatBool(r.MultiDexEnabled))
			field(&b, "proguardFiles", strings.Join(r.ProguardFiles, ", "))
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// RenderKeystore writes a keystore inspection report to w in format.
func RenderKeystore(w io.Writer, format string, r keystore.Report) error {
	switch format {
	case FormatJSON, FormatYAML:
		return encode(w, format, r)
	case FormatText:
		var b strings.Builder
		section(&b, "keystore")
		field(&b, "path", r.Path)
		field(&b, "format", r.Format)
		alias := r.Alias
		if !r.AliasVerified {
			alias += " (unverified)"
		}
		field(&b, "alias", alias)
		field(&b, "subject", r.Subject)
		field(&b, "issuer", r.Issuer)
		field(&b, "serial", r.Serial)
		field(&b, "valid from", r.NotBefore.Format(time.DateOnly))
		field(&b, "valid until", r.NotAfter.Format(time.DateOnly))
		field(&b, "SHA1", r.SHA1)
		field(&b, "SHA-256", r.SHA256)
		for _, warn := range r.Warnings {
			b.WriteString(warnStyle.Render("warning: "+warn) + "\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func section(b *strings.Builder, name string) {
	b.WriteString(sectionStyle.Render(name) + "\n")
}

func field(b *strings.Builder, k, v string) {
	b.WriteString("  " + keyStyle.Render(k) + v + "\n")
}
