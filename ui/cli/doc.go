// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the signcfg command line using Cobra. It loads the
// layered configuration once per invocation and delegates to the signing,
// project, keystore and report packages. Commands write rendered output to
// the command's out writer and diagnostics through internal/logging.
package cli
