// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for signcfg.
//
// Usage:
//
//	go run . [command] [flags]
//	./signcfg [command] [flags]
//
// signcfg resolves, validates and reports the release signing and packaging
// configuration of an Android app module. See --help for options.
package main

import (
	"os"

	"github.com/storyfont/signcfg/internal/logging"
	"github.com/storyfont/signcfg/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
