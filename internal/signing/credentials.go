// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"fmt"

	"github.com/storyfont/signcfg/internal/security"
)

// Recognized property keys.
const (
	KeyAlias      = "keyAlias"
	KeyPassword   = "keyPassword"
	StoreFile     = "storeFile"
	StorePassword = "storePassword"
)

// RequiredKeys lists the keys in the order they are checked.
var RequiredKeys = []string{KeyAlias, KeyPassword, StoreFile, StorePassword}

// Credentials are the keystore credentials handed to the packaging stage.
type Credentials struct {
	KeyAlias      string
	KeyPassword   security.Secret
	StoreFile     string
	StorePassword security.Secret
}

// ConfigurationError reports a signing property that could not be resolved.
// Key names the missing property. For a file that exists but cannot be
// parsed, Key is empty and Err carries the parse failure.
type ConfigurationError struct {
	Key  string
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("signing properties %s are malformed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("required signing property `%s` is missing", e.Key)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
