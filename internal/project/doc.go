// Copyright (c) 2026 Signcfg Team
// Signcfg - Android release signing configuration
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package project models the release packaging block of an Android app module:
// identifiers, SDK levels, versioning, applied plugins and the release build
// type (minification, resource shrinking, multidex, ProGuard files). Values
// owned by the Flutter tool are read as opaque pass-through data from
// local.properties and pubspec.yaml.
package project
