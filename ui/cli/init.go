// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/storyfont/signcfg/internal/config"
	"github.com/storyfont/signcfg/internal/i18n"
	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/propsfile"
	"github.com/storyfont/signcfg/internal/security"
	"github.com/storyfont/signcfg/internal/signing"
)

// readPassword is swapped in tests.
var readPassword = func(w io.Writer, prompt string, flag string) (security.Secret, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New(i18n.T("init.no_terminal", flag))
	}
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", flag, err)
	}
	return security.Secret(b), nil
}

func newInitCmd() *cobra.Command {
	var (
		alias, storeFile           string
		keyPassword, storePassword string
		force                      bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a key.properties file for release signing",
		Long: `Writes the signing properties file with mode 0600. Passwords not given as
flags are prompted for on the terminal. An existing file is kept unless
--force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := signing.Credentials{KeyAlias: alias, StoreFile: storeFile}

			var err error
			if keyPassword != "" {
				c.KeyPassword = security.FromString(keyPassword)
			} else if c.KeyPassword, err = readPassword(cmd.ErrOrStderr(), i18n.T("init.prompt_key_password"), "--key-password"); err != nil {
				return err
			}
			if storePassword != "" {
				c.StorePassword = security.FromString(storePassword)
			} else if c.StorePassword, err = readPassword(cmd.ErrOrStderr(), i18n.T("init.prompt_store_password"), "--store-password"); err != nil {
				return err
			}
			defer c.KeyPassword.Zero()
			defer c.StorePassword.Zero()

			path := projectPath(appConfig.Project.PropertiesFile)
			if err := signing.Write(appFs, path, c, force); err != nil {
				if errors.Is(err, propsfile.ErrExists) {
					return &localizedError{msg: i18n.T("signing.exists", path), err: err}
				}
				return err
			}
			logging.Infof("%s", i18n.T("signing.written", path))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&alias, "alias", "", "key alias inside the keystore")
	f.StringVar(&storeFile, "store-file", "", "keystore path as it should appear in the file")
	f.StringVar(&keyPassword, "key-password", "", "key password (prompted when omitted)")
	f.StringVar(&storePassword, "store-password", "", "store password (prompted when omitted)")
	f.BoolVar(&force, "force", false, "overwrite an existing properties file")
	_ = cmd.MarkFlagRequired("alias")
	_ = cmd.MarkFlagRequired("store-file")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the signcfg configuration file",
	}
	var system bool
	var output string
	write := &cobra.Command{
		Use:   "write",
		Short: "Persist the effective configuration as signcfg.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := appConfig
			// the root is machine specific, keep the file portable
			c.Project.Root = "."
			path := output
			var err error
			if path != "" {
				err = config.WriteConfigTo(&c, path)
			} else {
				path, err = config.WriteConfigFile(&c, system)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("config.written", path))
			return nil
		},
	}
	write.Flags().BoolVar(&system, "system", false, "write the system-wide file instead of the user file")
	write.Flags().StringVar(&output, "output", "", "write to this path instead")
	cmd.AddCommand(write)
	return cmd
}
