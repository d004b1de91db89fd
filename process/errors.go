// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExternalCommandError is returned when an external command could not be started or exited unsuccessfully
type ExternalCommandError struct {
	// Command is the command line as given to Run
	Command string
	// ExitCode is the exit status, -1 when the command did not start or was killed
	ExitCode int
	// Output is everything the command printed before it exited
	Output string
	Err    error
}

func (e *ExternalCommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	out := strings.TrimSpace(e.Output)
	if out != "" {
		msg = fmt.Sprintf("%s\noutput: %s", msg, out)
	}

	return msg
}

func (e *ExternalCommandError) Unwrap() error { return e.Err }

func newExternalCommandError(command string, output string, err error) *ExternalCommandError {
	res := &ExternalCommandError{Command: command, ExitCode: -1, Output: output, Err: err}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}

	return res
}
