// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package sprig assembles the function map available to gem templates
package sprig

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TxtFuncMap returns the Sprig text functions with uuidv4 replaced by one backed by google/uuid
func TxtFuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()

	funcs["uuidv4"] = uuidv4

	return funcs
}
