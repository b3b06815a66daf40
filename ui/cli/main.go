// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/storyfont/signcfg/buildvars"
	"github.com/storyfont/signcfg/internal/config"
	"github.com/storyfont/signcfg/internal/i18n"
	"github.com/storyfont/signcfg/internal/keystore"
	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/project"
	"github.com/storyfont/signcfg/internal/report"
	"github.com/storyfont/signcfg/internal/signing"
)

var cfgFile string
var verbose bool

var appConfig config.Config

// appFs is the filesystem every command reads and writes through.
var appFs afero.Fs = afero.NewOsFs()

// flagBindings maps persistent flag names to configuration keys.
var flagBindings = map[string]string{
	"root":             "project.root",
	"properties":       "project.properties_file",
	"local-properties": "project.local_properties",
	"pubspec":          "project.pubspec",
	"format":           "output.format",
	"show-secrets":     "output.show_secrets",
	"language":         "language",
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	logging.SetDebug(verbose)

	explicit, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	c, used, err := config.LoadConfig[config.Config](cmd.Flags(), config.Defaults(), flagBindings, explicit)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if used != "" {
		logging.Debugf("using config file %s", used)
	}

	i18n.Init(c.Language)

	if !report.ValidFormat(c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", c.Output.Format)
	}
	root, err := filepath.Abs(c.Project.Root)
	if err != nil {
		return fmt.Errorf("resolve project root %s: %w", c.Project.Root, err)
	}
	c.Project.Root = root

	appConfig = c
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// Execute runs the CLI entrypoint and returns the error in the configured
// language.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return localize(err)
	}
	return nil
}

// NewRootCmd creates and configures a new root cobra command. It is called
// for every test so that flag state does not leak between runs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signcfg",
		Short: "Resolve and check the Android release signing configuration.",
		Long: `signcfg reads key.properties next to an Android app module, resolves the
release signing credentials and reports the release packaging configuration
(SDK levels, versioning, minification, resource shrinking, ProGuard files)
that the build tool will consume. A missing key fails the run and names it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
	}

	cmd.Version = currentBuild().String()

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&cfgFile, "config", "", "config file (default: signcfg.yaml in the user, system or current directory)")
	pf.String("root", ".", "Android app module directory")
	pf.String("properties", signing.DefaultPropertiesFile, "signing properties file, relative to --root")
	pf.String("local-properties", "../local.properties", "local.properties written by the Flutter tool, relative to --root")
	pf.String("pubspec", "", "pubspec.yaml (default: <root>/<flutter_source>/pubspec.yaml)")
	pf.StringP("format", "o", report.FormatText, "output format: text, json or yaml")
	pf.Bool("show-secrets", false, "print passwords instead of redacting them")
	pf.String("language", "en", `message language ("en", "de")`)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			b := currentBuild()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", b.Version)
			fmt.Fprintf(out, "commit: %s\n", b.Commit)
			if b.Date != "" {
				fmt.Fprintf(out, "built: %s\n", b.Date)
			}
		},
	}

	cmd.AddCommand(
		newResolveCmd(),
		newShowCmd(),
		newCheckCmd(),
		newVerifyCmd(),
		newInitCmd(),
		newConfigCmd(),
		versionCmd,
	)
	return cmd
}

// buildInfo describes the running binary.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b buildInfo) String() string {
	s := b.Version
	if b.Commit != "" {
		s += " (" + b.Commit + ")"
	}
	if b.Date != "" {
		s += " built: " + b.Date
	}
	return s
}

func currentBuild() buildInfo {
	info, _ := debug.ReadBuildInfo()
	return buildFrom(info)
}

// buildFrom prefers the link-time buildvars and falls back to the module
// version and VCS stamp the go tool records. info may be nil.
func buildFrom(info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: buildvars.VersionOrDefault("dev"), Commit: buildvars.Commit}
	if info == nil {
		return b
	}
	if buildvars.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			b.Date = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && b.Commit != "" && buildvars.Commit == "" {
		b.Commit += "-dirty"
	}
	return b
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// projectPath resolves p against the configured project root.
func projectPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(appConfig.Project.Root, p)
}

func resolveCredentials() (signing.Credentials, error) {
	return signing.NewResolver(appFs, appConfig.Project.Root).Resolve(appConfig.Project.PropertiesFile)
}

// loadAndroid returns the configured packaging block with the Flutter tool's
// pass-through values filled in.
func loadAndroid() (project.Config, error) {
	a := appConfig.Android
	pubspec := projectPath(appConfig.Project.Pubspec)
	if pubspec == "" {
		pubspec = filepath.Join(appConfig.Project.Root, a.FlutterSource, "pubspec.yaml")
	}
	v, err := project.LoadFlutterValues(appFs, projectPath(appConfig.Project.LocalProperties), pubspec)
	if err != nil {
		return a, err
	}
	return a.WithFlutter(v), nil
}

// localizedError carries a translated message while keeping the cause
// reachable through errors.Is/As.
type localizedError struct {
	msg string
	err error
}

func (e *localizedError) Error() string { return e.msg }
func (e *localizedError) Unwrap() error { return e.err }

func localize(err error) error {
	var ce *signing.ConfigurationError
	var ve *project.ValidationError
	switch {
	case errors.As(err, &ce) && ce.Key != "":
		return &localizedError{msg: i18n.T("signing.missing_property", ce.Key), err: err}
	case errors.As(err, &ce):
		return &localizedError{msg: i18n.T("signing.malformed", ce.Path, ce.Err), err: err}
	case errors.As(err, &ve):
		return &localizedError{msg: i18n.T("check.failed", len(ve.Violations)), err: err}
	case errors.Is(err, keystore.ErrBadPassword):
		return &localizedError{msg: i18n.T("keystore.bad_password"), err: err}
	case errors.Is(err, keystore.ErrUnsupportedFormat):
		return &localizedError{msg: i18n.T("keystore.unsupported") + " (" + err.Error() + ")", err: err}
	case errors.Is(err, keystore.ErrAliasNotFound):
		return &localizedError{msg: i18n.T("keystore.alias_not_found") + " (" + err.Error() + ")", err: err}
	}
	return err
}
