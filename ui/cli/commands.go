// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/storyfont/signcfg/internal/i18n"
	"github.com/storyfont/signcfg/internal/keystore"
	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/project"
	"github.com/storyfont/signcfg/internal/report"
	"github.com/storyfont/signcfg/internal/signing"
)

// now is swapped in tests.
var now = time.Now

func signingBlock(c signing.Credentials) report.SigningConfig {
	return report.FromCredentials(appConfig.Android.Release.SigningConfig, c, appConfig.Output.ShowSecrets)
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the release signing config from key.properties",
		Long: `Reads the signing properties file and prints the signing config the
packaging stage will use. Fails on the first of keyAlias, keyPassword,
storeFile, storePassword that is missing. A missing file counts as empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials()
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), appConfig.Output.Format, report.BuildConfig{
				SigningConfig: signingBlock(creds),
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full release packaging configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials()
			if err != nil {
				return err
			}
			android, err := loadAndroid()
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), appConfig.Output.Format, report.BuildConfig{
				SigningConfig: signingBlock(creds),
				Android:       &android,
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	var withKeystore bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the release configuration",
		Long: `Resolves the signing credentials, then validates the packaging
configuration and lists every problem found. With --keystore the keystore is
opened with the resolved credentials as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials()
			if err != nil {
				return err
			}
			android, err := loadAndroid()
			if err != nil {
				return err
			}
			if err := project.Validate(appFs, appConfig.Project.Root, android); err != nil {
				var ve *project.ValidationError
				if errors.As(err, &ve) {
					for _, v := range ve.Violations {
						fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("check.violation", v.Field, i18n.T("validation."+v.Code)+" ("+v.Detail+")"))
					}
				}
				return err
			}
			if withKeystore {
				if _, err := keystore.Inspect(appFs, creds, now()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("check.ok"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withKeystore, "keystore", false, "also open the keystore with the resolved credentials")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var copyFingerprint bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Open the keystore and print the signing certificate fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials()
			if err != nil {
				return err
			}
			r, err := keystore.Inspect(appFs, creds, now())
			if err != nil {
				return err
			}
			if err := report.RenderKeystore(cmd.OutOrStdout(), appConfig.Output.Format, r); err != nil {
				return err
			}
			if copyFingerprint {
				if err := clipboard.WriteAll(r.SHA256); err != nil {
					return fmt.Errorf("copy fingerprint: %w", err)
				}
				logging.Infof("%s", i18n.T("keystore.copied"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyFingerprint, "copy", false, "copy the SHA-256 fingerprint to the clipboard")
	return cmd
}
