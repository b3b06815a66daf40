// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package signing resolves the release signing credentials of an Android app
// module from its key.properties file. Resolution is a single linear pass over
// the four required keys and stops at the first missing one.
package signing
