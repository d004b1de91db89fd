// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package process

import (
	"errors"
	"io"
	"os/exec"
)

func runPty(_ *exec.Cmd, _ string, _ io.Writer) error {
	return errors.New("pseudo terminals are not supported on this platform")
}
