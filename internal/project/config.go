// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package project

// SDK-provided ProGuard files. They live inside the Android SDK and are never
// checked on disk.
const (
	DefaultProguardFile  = "proguard-android.txt"
	OptimizeProguardFile = "proguard-android-optimize.txt"
)

// BuildType is the release build type consumed by the packaging stage.
type BuildType struct {
	Name            string   `mapstructure:"name" json:"name" yaml:"name"`
	SigningConfig   string   `mapstructure:"signing_config" json:"signingConfig" yaml:"signing_config"`
	MinifyEnabled   bool     `mapstructure:"minify_enabled" json:"minifyEnabled" yaml:"minify_enabled"`
	ShrinkResources bool     `mapstructure:"shrink_resources" json:"shrinkResources" yaml:"shrink_resources"`
	MultiDexEnabled bool     `mapstructure:"multidex_enabled" json:"multiDexEnabled" yaml:"multidex_enabled"`
	ProguardFiles   []string `mapstructure:"proguard_files" json:"proguardFiles" yaml:"proguard_files"`
}

// Config is the android packaging block. Zero SDK levels and versions mean
// "take the Flutter tool's value".
type Config struct {
	Namespace     string    `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	ApplicationID string    `mapstructure:"application_id" json:"applicationId" yaml:"application_id"`
	MinSdk        int       `mapstructure:"min_sdk" json:"minSdk" yaml:"min_sdk"`
	CompileSdk    int       `mapstructure:"compile_sdk" json:"compileSdk" yaml:"compile_sdk"`
	TargetSdk     int       `mapstructure:"target_sdk" json:"targetSdk" yaml:"target_sdk"`
	NdkVersion    string    `mapstructure:"ndk_version" json:"ndkVersion" yaml:"ndk_version"`
	JavaVersion   int       `mapstructure:"java_version" json:"javaVersion" yaml:"java_version"`
	VersionCode   int       `mapstructure:"version_code" json:"versionCode" yaml:"version_code"`
	VersionName   string    `mapstructure:"version_name" json:"versionName" yaml:"version_name"`
	Plugins       []string  `mapstructure:"plugins" json:"plugins" yaml:"plugins"`
	FlutterSource string    `mapstructure:"flutter_source" json:"flutterSource" yaml:"flutter_source"`
	Release       BuildType `mapstructure:"release" json:"release" yaml:"release"`
}

// Defaults returns the packaging block the app module ships with.
func Defaults() Config {
	return Config{
		Namespace:     "com.storyfont.app.storyfont",
		ApplicationID: "com.storyfont.app.storyfont",
		MinSdk:        23,
		NdkVersion:    "27.0.12077973",
		JavaVersion:   11,
		Plugins: []string{
			"com.android.application",
			"com.google.gms.google-services",
			"kotlin-android",
			"dev.flutter.flutter-gradle-plugin",
		},
		FlutterSource: "../..",
		Release: BuildType{
			Name:            "release",
			SigningConfig:   "release",
			MinifyEnabled:   true,
			ShrinkResources: true,
			MultiDexEnabled: true,
			ProguardFiles:   []string{OptimizeProguardFile, "proguard-rules.pro"},
		},
	}
}

// DefaultValues flattens Defaults into viper-style dotted keys under prefix.
func DefaultValues(prefix string) map[string]any {
	d := Defaults()
	k := func(s string) string { return prefix + "." + s }
	return map[string]any{
		k("namespace"):                d.Namespace,
		k("application_id"):           d.ApplicationID,
		k("min_sdk"):                  d.MinSdk,
		k("compile_sdk"):              d.CompileSdk,
		k("target_sdk"):               d.TargetSdk,
		k("ndk_version"):              d.NdkVersion,
		k("java_version"):             d.JavaVersion,
		k("version_code"):             d.VersionCode,
		k("version_name"):             d.VersionName,
		k("plugins"):                  d.Plugins,
		k("flutter_source"):           d.FlutterSource,
		k("release.name"):             d.Release.Name,
		k("release.signing_config"):   d.Release.SigningConfig,
		k("release.minify_enabled"):   d.Release.MinifyEnabled,
		k("release.shrink_resources"): d.Release.ShrinkResources,
		k("release.multidex_enabled"): d.Release.MultiDexEnabled,
		k("release.proguard_files"):   d.Release.ProguardFiles,
	}
}

// WithFlutter fills the values left unset in c from the Flutter tool's
// pass-through values. Explicit configuration wins.
func (c Config) WithFlutter(v FlutterValues) Config {
	if c.VersionCode == 0 {
		c.VersionCode = v.VersionCode
	}
	if c.VersionName == "" {
		c.VersionName = v.VersionName
	}
	if c.CompileSdk == 0 {
		c.CompileSdk = v.CompileSdk
	}
	if c.TargetSdk == 0 {
		c.TargetSdk = v.TargetSdk
	}
	if c.MinSdk == 0 {
		c.MinSdk = v.MinSdk
	}
	return c
}
