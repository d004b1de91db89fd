// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package fileops

import (
	"errors"
	"fmt"
)

// ErrAnchorNotFound is wrapped by SubstitutionError
var ErrAnchorNotFound = errors.New("anchor not found")

// SubstitutionError indicates the anchor pattern of a substitution did not match anywhere in a file,
// usually because the tool that produced the file changed its output
type SubstitutionError struct {
	Path   string
	Anchor string
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("cannot substitute %s because %s was not found", e.Path, e.Anchor)
}

// Unwrap returns ErrAnchorNotFound so callers can use errors.Is
func (e *SubstitutionError) Unwrap() error { return ErrAnchorNotFound }

// IOError indicates a file operation could not be completed
type IOError struct {
	Op   Verb
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
