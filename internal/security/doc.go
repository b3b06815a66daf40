// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package security holds the redacting wrapper used for keystore passwords so
// they stay out of logs, reports and error messages unless explicitly revealed.
package security
