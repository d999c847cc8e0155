// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

//nolint:revive // var-naming: avoid package names that conflict with Go standard library package names
package version

// Version is set at build time with
// -ldflags "-X github.com/lima-vm/socksummary/pkg/version.Version=v0.1.0".
var Version = "<unknown>"
