// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/internal/propsfile"
	"github.com/storyfont/signcfg/internal/security"
)

// DefaultPropertiesFile is looked up relative to the project root.
const DefaultPropertiesFile = "key.properties"

// Resolver reads signing credentials for the module rooted at Root.
type Resolver struct {
	fs   afero.Fs
	root string
}

// NewResolver returns a Resolver reading from fsys. Relative paths, both the
// properties file and the storeFile value, are taken against root.
func NewResolver(fsys afero.Fs, root string) *Resolver {
	return &Resolver{fs: fsys, root: root}
}

// Resolve reads the properties file at path and returns the credentials, or a
// *ConfigurationError naming the first missing key in RequiredKeys order. A
// nonexistent file behaves like an empty one.
func (r *Resolver) Resolve(path string) (Credentials, error) {
	var c Credentials
	path = r.abs(path)

	p, found, err := propsfile.Load(r.fs, path)
	if err != nil {
		if found {
			return c, &ConfigurationError{Path: path, Err: err}
		}
		return c, err
	}
	if !found {
		logging.Debugf("signing properties %s not found, treating as empty", path)
	}

	get := func(key string) (string, error) {
		v, ok := p.Get(key)
		if !ok {
			return "", &ConfigurationError{Key: key, Path: path}
		}
		return v, nil
	}

	if c.KeyAlias, err = get(KeyAlias); err != nil {
		return Credentials{}, err
	}
	keyPassword, err := get(KeyPassword)
	if err != nil {
		return Credentials{}, err
	}
	storeFile, err := get(StoreFile)
	if err != nil {
		return Credentials{}, err
	}
	storePassword, err := get(StorePassword)
	if err != nil {
		return Credentials{}, err
	}

	c.KeyPassword = security.FromString(keyPassword)
	c.StoreFile = r.abs(storeFile)
	c.StorePassword = security.FromString(storePassword)
	logging.Debugf("resolved signing config: alias=%s storeFile=%s", c.KeyAlias, c.StoreFile)
	return c, nil
}

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.root, p)
}

// Resolve reads credentials from the OS filesystem.
func Resolve(root, path string) (Credentials, error) {
	return NewResolver(afero.NewOsFs(), root).Resolve(path)
}

// Write stores c as a properties file at path. storeFile is written as given,
// so pass the path the way it should appear in the file (usually relative).
func Write(fsys afero.Fs, path string, c Credentials, overwrite bool) error {
	return propsfile.Write(fsys, path, []propsfile.Entry{
		{Key: KeyAlias, Value: c.KeyAlias},
		{Key: KeyPassword, Value: c.KeyPassword.Reveal()},
		{Key: StoreFile, Value: c.StoreFile},
		{Key: StorePassword, Value: c.StorePassword.Reveal()},
	}, overwrite)
}
