// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package process

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// runPty starts cmd on a pseudo terminal, types stdin into it and copies everything
// the command prints to out until it exits
func runPty(cmd *exec.Cmd, stdin string, out io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}

	// stdin is typed while output is drained, a command that prints before it
	// reads would otherwise block us both once the terminal buffers fill
	written := make(chan error, 1)
	go func() {
		if stdin == "" {
			written <- nil
			return
		}

		_, err := io.WriteString(ptmx, stdin)
		written <- err
	}()

	// reading the terminal fails with EIO once the command closed its side
	_, copyErr := io.Copy(out, ptmx)
	waitErr := cmd.Wait()

	// unblocks a writer still waiting on a command that exited without reading
	ptmx.Close()
	writeErr := <-written

	switch {
	case copyErr != nil && !errors.Is(copyErr, syscall.EIO):
		return copyErr
	case waitErr != nil:
		return waitErr
	case writeErr != nil && !errors.Is(writeErr, syscall.EIO) && !errors.Is(writeErr, os.ErrClosed):
		return writeErr
	}

	return nil
}
