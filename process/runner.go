// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package process runs external tools synchronously, optionally attached to a pseudo
// terminal so that interactive prompts can be answered from a fixed script.
package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Logger receives debug output about executed commands
type Logger interface {
	Debugf(format string, v ...any)
}

// Options configures a single command execution
type Options struct {
	// PTY attaches the command to a pseudo terminal
	PTY bool
	// Stdin is written to the command, when PTY is set it is typed into the terminal
	Stdin string
	// Env is merged over the current environment for the command only
	Env map[string]string
	// Dir is the working directory, defaults to the current directory
	Dir string
}

// Option configures a Runner
type Option func(*Runner)

// WithOutput streams command output to w while it is captured
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger configures a logger to use, no logging is done without this
func WithLogger(log Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// Runner executes external commands
type Runner struct {
	out io.Writer
	log Logger
}

// New creates a runner that streams output to os.Stdout unless configured otherwise
func New(opts ...Option) *Runner {
	r := &Runner{out: os.Stdout}
	for _, o := range opts {
		o(r)
	}

	if r.out == nil {
		r.out = io.Discard
	}

	return r
}

// Run executes commandLine and waits for it to exit, returning everything it printed.
// A command that cannot start or exits non zero results in an ExternalCommandError.
func (r *Runner) Run(ctx context.Context, commandLine string, opts Options) (string, error) {
	return r.run(ctx, r.out, commandLine, opts)
}

// RunQuiet executes commandLine discarding its output and reports whether it succeeded
func (r *Runner) RunQuiet(ctx context.Context, commandLine string, opts Options) bool {
	_, err := r.run(ctx, io.Discard, commandLine, opts)
	if err != nil && r.log != nil {
		r.log.Debugf("%s did not succeed: %v", commandLine, err)
	}

	return err == nil
}

func (r *Runner) run(ctx context.Context, out io.Writer, commandLine string, opts Options) (string, error) {
	cmd, err := command(ctx, commandLine, opts)
	if err != nil {
		return "", &ExternalCommandError{Command: commandLine, ExitCode: -1, Err: err}
	}

	if r.log != nil {
		r.log.Debugf("Running %s (pty: %t, dir: %q)", commandLine, opts.PTY, cmd.Dir)
	}

	buf := bytes.NewBuffer([]byte{})
	w := io.MultiWriter(buf, out)

	if opts.PTY {
		err = runPty(cmd, opts.Stdin, w)
	} else {
		cmd.Stdin = strings.NewReader(opts.Stdin)
		cmd.Stdout = w
		cmd.Stderr = w
		err = cmd.Run()
	}
	if err != nil {
		return buf.String(), newExternalCommandError(commandLine, buf.String(), err)
	}

	return buf.String(), nil
}

func command(ctx context.Context, commandLine string, opts Options) (*exec.Cmd, error) {
	parts, err := shellquote.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("command is required")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), envToSlice(opts.Env)...)

	return cmd, nil
}

func envToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]string, 0, len(keys))
	for _, k := range keys {
		res = append(res, k+"="+env[k])
	}

	return res
}

// CommandLine joins args into a command line that Run splits back into the same arguments
func CommandLine(args ...string) string {
	return shellquote.Join(args...)
}
