// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config layers signcfg settings: built-in defaults, a signcfg.yaml
// file, SIGNCFG_* environment variables and command-line flags, in
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/storyfont/signcfg/internal/project"
	"github.com/storyfont/signcfg/internal/signing"
)

// ProjectConfig locates the files of the Android app module.
type ProjectConfig struct {
	Root            string `mapstructure:"root" yaml:"root"`
	PropertiesFile  string `mapstructure:"properties_file" yaml:"properties_file"`
	LocalProperties string `mapstructure:"local_properties" yaml:"local_properties"`
	Pubspec         string `mapstructure:"pubspec" yaml:"pubspec"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format"`
	ShowSecrets bool   `mapstructure:"show_secrets" yaml:"show_secrets"`
}

// Config is the full application configuration.
type Config struct {
	Language string         `mapstructure:"language" yaml:"language"`
	Project  ProjectConfig  `mapstructure:"project" yaml:"project"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Android  project.Config `mapstructure:"android" yaml:"android"`
}

// Defaults returns the built-in defaults as dotted viper keys.
func Defaults() map[string]any {
	d := map[string]any{
		"language":                 "en",
		"project.root":             ".",
		"project.properties_file":  signing.DefaultPropertiesFile,
		"project.local_properties": "../local.properties",
		"project.pubspec":          "",
		"output.format":            "text",
		"output.show_secrets":      false,
	}
	for k, v := range project.DefaultValues("android") {
		d[k] = v
	}
	return d
}

// GetConfigPath returns the path of the user or system configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "signcfg")
		default:
			configDir = "/etc/signcfg"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "signcfg")
	}
	return filepath.Join(configDir, "signcfg.yaml"), nil
}

// LoadConfig builds a T from defaults, the first signcfg.yaml found (or
// explicitFile when non-nil), the environment and flags. bindings maps flag
// names to config keys; only flags present in flags are bound. A missing
// config file is not an error.
func LoadConfig[T any](flags *pflag.FlagSet, defaults map[string]any, bindings map[string]string, explicitFile *string) (T, string, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("signcfg")
	v.SetConfigType("yaml")
	if explicitFile != nil {
		v.SetConfigFile(*explicitFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("signcfg")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range bindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return c, "", fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decode config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

// WriteConfigFile persists c to the user (or system) configuration path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigTo(c, path)
}

// WriteConfigTo writes c as YAML to path, creating parent directories.
func WriteConfigTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	// 0600: the file may end up holding paths to signing material
	return os.WriteFile(path, data, 0o600)
}
