// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package confirm asks yes or no questions on interactive terminals
package confirm

//go:generate mockgen -source confirm.go -destination mock_test.go -package confirm -typed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/AlecAivazis/survey/v2"
	terminal "golang.org/x/term"
)

var (
	// ErrNoTerminal is returned when asking without an interactive terminal
	ErrNoTerminal = errors.New("can only ask for confirmation on a valid terminal")

	// ErrTargetExists is returned by Merge when an existing directory may not be generated into
	ErrTargetExists = errors.New("target directory exists")
)

// surveyor abstracts the survey library for testability.
type surveyor interface {
	AskOne(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error
}

type defaultSurveyor struct{}

func (d *defaultSurveyor) AskOne(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return survey.AskOne(p, response, opts...)
}

type askOption func(*asker)

func withSurveyor(s surveyor) askOption {
	return func(a *asker) {
		a.surveyor = s
	}
}

func withIsTerminal(f func() bool) askOption {
	return func(a *asker) {
		a.isTerminal = f
	}
}

type asker struct {
	surveyor   surveyor
	isTerminal func() bool
}

// Ask asks a yes or no question and returns the answer. Color markup like {bold}text{/bold}
// in question is rendered. Both stdin and stdout have to be a terminal.
func Ask(question string, dflt bool, opts ...askOption) (bool, error) {
	a := &asker{
		surveyor:   &defaultSurveyor{},
		isTerminal: isTerminal,
	}

	for _, o := range opts {
		o(a)
	}

	if !a.isTerminal() {
		return false, ErrNoTerminal
	}

	ans := dflt
	err := a.surveyor.AskOne(&survey.Confirm{
		Message: colorMarkup(question),
		Default: dflt,
	}, &ans)
	if err != nil {
		return false, err
	}

	return ans, nil
}

// ExistingContent reports whether dir exists and holds any entries, generating into
// such a directory needs confirmation
func ExistingContent(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	return len(entries) > 0, nil
}

// Merge reports whether generating into dir has to merge with an existing directory.
// Missing directories need no merge and empty ones are used as is, for anything
// else the user is asked and refusing, or having no terminal, is ErrTargetExists.
func Merge(dir string, opts ...askOption) (bool, error) {
	_, err := os.Stat(dir)
	if err != nil {
		return false, nil
	}

	content, err := ExistingContent(dir)
	if err != nil {
		return false, err
	}
	if !content {
		return true, nil
	}

	ok, err := Ask(fmt.Sprintf("Generate into existing directory {bold}%s{/bold}?", dir), false, opts...)
	switch {
	case errors.Is(err, ErrNoTerminal):
		return false, ErrTargetExists
	case err != nil:
		return false, err
	case !ok:
		return false, ErrTargetExists
	}

	return true, nil
}

func isTerminal() bool {
	return terminal.IsTerminal(int(os.Stdin.Fd())) && terminal.IsTerminal(int(os.Stdout.Fd()))
}
