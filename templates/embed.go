// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package templates holds the templates and static assets written into generated gems
package templates

import "embed"

// FS is the read only source area for templates and assets
//
//go:embed gem static assets dummy
var FS embed.FS
