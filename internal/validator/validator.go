// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package validator evaluates boolean expr-lang expressions against an environment
package validator

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Validate compiles expression against env and reports its boolean result
func Validate(env map[string]any, expression string) (bool, error) {
	if expression == "" {
		return true, nil
	}

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	res, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("could not evaluate %q: %w", expression, err)
	}

	ok, isBool := res.(bool)
	if !isBool {
		return false, fmt.Errorf("expression %q did not return a boolean", expression)
	}

	return ok, nil
}

// ValidateValue evaluates expression with value available as "value" alongside env
func ValidateValue(value any, env map[string]any, expression string) (bool, error) {
	e := map[string]any{}
	for k, v := range env {
		e[k] = v
	}
	e["value"] = value

	return Validate(e, expression)
}
