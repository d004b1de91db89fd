// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/choria-io/amberext"
	"github.com/choria-io/amberext/fileops"
	"github.com/choria-io/amberext/internal/confirm"
	"github.com/choria-io/fisk"
)

var (
	target  string
	version = "0.9.1"
)

func main() {
	app := fisk.New("amberext", "Generates amber_component extension gems")
	app.Version(version)
	app.VersionFlag.Short('v')
	app.HelpFlag.Short('h')

	app.Help = `
Generates a Ruby gem holding amber_component components.

The gem is created using bundle gem and prepared to hold components, a
demonstration Rails application loading the gem from the checkout is
created in test/dummy.

The last part of the target path is the gem name, hyphens nest modules:
sample-widgets defines Sample::Widgets in lib/sample/widgets.rb.
`
	app.Arg("target", "The directory to generate the gem in").Required().StringVar(&target)
	app.Action(generateAction)

	app.MustParseWithUsage(os.Args[1:])
}

func generateAction(_ *fisk.ParseContext) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "amberext",
		Level:           log.InfoLevel,
	})

	cfg, err := amberext.DefaultConfig()
	if err != nil {
		return err
	}

	cfg.TargetDirectory, err = filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("invalid target %s: %v", target, err)
	}
	cfg.Version = version

	cfg.MergeTargetDirectory, err = confirm.Merge(cfg.TargetDirectory)
	if err != nil {
		return err
	}

	counts := map[fileops.Verb]int{}
	gen, err := amberext.New(cfg, amberext.WithLogger(logger), amberext.WithObserver(func(op fileops.Operation) {
		counts[op.Verb]++
		printOperation(os.Stdout, op)
	}))
	if err != nil {
		return err
	}

	err = gen.Generate(ctx)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, gen.Target(), counts)

	return nil
}
