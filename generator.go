// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package amberext generates Ruby gems extending the amber_component framework.
//
// A gem skeleton is created by bundle gem and then patched to load components, depend on
// the framework and carry component generator scripts. A demonstration Rails application
// that loads the gem from the checkout is optionally generated inside the gem.
package amberext

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/choria-io/amberext/fileops"
	"github.com/choria-io/amberext/internal/sprig"
	"github.com/choria-io/amberext/internal/validator"
	"github.com/choria-io/amberext/names"
	"github.com/choria-io/amberext/process"
	"github.com/choria-io/amberext/templates"
)

const (
	patchEntryRequires       = "gem-entry-requires"
	patchGemspecDependencies = "gemspec-dependencies"
	patchTestHelperCoverage  = "test-helper-coverage"
	patchRakefileTestPattern = "rakefile-test-pattern"
	patchDummyApplication    = "dummy-application-constant"
)

// manifestFile records the generation id and inputs in the gem root
const manifestFile = ".amberext.yml"

var requiredPatches = []string{
	patchEntryRequires,
	patchGemspecDependencies,
	patchTestHelperCoverage,
	patchRakefileTestPattern,
	patchDummyApplication,
}

type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// Runner executes external tools
type Runner interface {
	Run(ctx context.Context, commandLine string, opts process.Options) (string, error)
	RunQuiet(ctx context.Context, commandLine string, opts process.Options) bool
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger configures a logger to use, no logging is done without this
func WithLogger(log Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithRunner replaces the runner used for external tools
func WithRunner(r Runner) Option {
	return func(g *Generator) {
		g.runner = r
	}
}

// WithObserver calls cb after every file operation
func WithObserver(cb func(fileops.Operation)) Option {
	return func(g *Generator) {
		g.observer = cb
	}
}

// WithSource reads templates and assets from source instead of the built in ones
func WithSource(source fs.FS) Option {
	return func(g *Generator) {
		g.source = source
	}
}

// Generator creates an extension gem and its demonstration app
type Generator struct {
	cfg      *Config
	names    names.Names
	bindings Bindings
	renderer *Renderer
	patches  *PatchSet
	tree     *fileops.Tree
	runner   Runner
	source   fs.FS
	observer func(fileops.Operation)
	log      Logger
}

type step struct {
	description string
	fn          func(context.Context) error
}

// New creates a generator, the configuration and gem name are validated
func New(cfg Config, opts ...Option) (*Generator, error) {
	err := validateConfig(&cfg)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:    &cfg,
		names:  names.Derive(cfg.TargetDirectory),
		source: templates.FS,
	}

	for _, o := range opts {
		o(g)
	}

	err = g.validateName()
	if err != nil {
		return nil, err
	}

	g.bindings, err = newBindings(g.names, g.cfg)
	if err != nil {
		return nil, err
	}

	g.patches, err = DefaultPatchSet()
	if err != nil {
		return nil, err
	}
	for _, name := range requiredPatches {
		_, err = g.patches.Get(name)
		if err != nil {
			return nil, err
		}
	}

	if g.runner == nil {
		var ropts []process.Option
		if g.log != nil {
			ropts = append(ropts, process.WithLogger(g.log))
		}
		g.runner = process.New(ropts...)
	}

	g.renderer = NewRenderer(g.source, sprig.TxtFuncMap(), nil)
	g.renderer.Delims(cfg.CustomLeftDelimiter, cfg.CustomRightDelimiter)

	var topts []fileops.Option
	if g.observer != nil {
		topts = append(topts, fileops.WithObserver(g.observer))
	}
	if g.log != nil {
		topts = append(topts, fileops.WithLogger(g.log))
	}

	g.tree, err = fileops.New(cfg.TargetDirectory, g.source, topts...)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Generator) validateName() error {
	if g.names.PackageName == "" || g.names.PackageName == string(filepath.Separator) {
		return fmt.Errorf("cannot derive a gem name from %s", g.cfg.TargetDirectory)
	}

	env := map[string]any{
		"module": g.names.ModuleName,
		"path":   g.names.PackagePath,
	}

	ok, err := validator.ValidateValue(g.names.PackageName, env, g.cfg.NameValidation)
	if err != nil {
		return fmt.Errorf("name validation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("invalid gem name %q", g.names.PackageName)
	}

	return nil
}

// Names are the names derived from the target directory
func (g *Generator) Names() names.Names {
	return g.names
}

// Bindings are the values passed to every template
func (g *Generator) Bindings() Bindings {
	return g.bindings
}

// Target is the absolute path of the gem
func (g *Generator) Target() string {
	return g.tree.Root()
}

// Operations are the file operations performed so far
func (g *Generator) Operations() []fileops.Operation {
	return g.tree.Operations()
}

// Generate creates the gem and, when enabled, the demonstration app. The first failure
// stops generation, nothing is rolled back.
func (g *Generator) Generate(ctx context.Context) error {
	err := g.packagePhase(ctx)
	if err != nil {
		return fmt.Errorf("generating gem %s failed: %w", g.names.PackageName, err)
	}

	if !g.cfg.DemoApp.Enabled {
		g.debugf("Skipping the demonstration app")
		return nil
	}

	err = g.demoAppPhase(ctx)
	if err != nil {
		return fmt.Errorf("generating the demonstration app failed: %w", err)
	}

	return nil
}

func (g *Generator) packagePhase(ctx context.Context) error {
	return g.runSteps(ctx, []step{
		{"Generating the gem skeleton", g.generateSkeleton},
		{"Creating the base component", g.createBaseComponent},
		{"Copying support files", g.copySupportFiles},
		{"Recording the generation manifest", g.createManifest},
		{"Requiring components", g.patchStep(patchEntryRequires)},
		{"Adding gem dependencies", g.patchStep(patchGemspecDependencies)},
		{"Adding development dependencies", g.appendStep("gem/gemfile_dependencies.rb.tmpl", "Gemfile")},
		{"Enabling test coverage", g.patchStep(patchTestHelperCoverage)},
		{"Creating scripts", g.createScripts},
		{"Creating component directories", g.createComponentDirectories},
		{"Renaming tests", g.patchStep(patchRakefileTestPattern)},
		{"Moving the default test", g.moveDefaultTest},
	})
}

func (g *Generator) demoAppPhase(ctx context.Context) error {
	return g.runSteps(ctx, []step{
		{"Checking for Rails", g.ensureRails},
		{"Generating the demonstration app", g.generateDemoApp},
		{"Adding the gem to the demonstration app", g.appendStep("dummy/gemfile.rb.jet", path.Join(g.bindings.DummyAppPath, "Gemfile"))},
		{"Describing the gem to the demonstration app", g.patchStep(patchDummyApplication)},
		{"Importing component styles", g.importStylesheet},
	})
}

func (g *Generator) runSteps(ctx context.Context, steps []step) error {
	for _, s := range steps {
		err := ctx.Err()
		if err != nil {
			return err
		}

		g.infof("%s", s.description)

		err = s.fn(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateSkeleton(ctx context.Context) error {
	parent := filepath.Dir(g.tree.Root())

	err := os.MkdirAll(parent, 0755)
	if err != nil {
		return err
	}

	sc := g.cfg.Scaffolder
	_, err = g.runner.Run(ctx, sc.commandLine(g.tree.Root()), process.Options{
		PTY:   sc.PTY,
		Stdin: sc.Answers,
		Dir:   parent,
	})

	return err
}

func (g *Generator) createBaseComponent(_ context.Context) error {
	return g.renderTo("gem/base_component.rb.tmpl", path.Join(g.bindings.EntryFolder, "components", "base_component.rb"))
}

func (g *Generator) copySupportFiles(_ context.Context) error {
	return g.tree.Copy("static/rubocop.yml", ".rubocop.yml")
}

func (g *Generator) createManifest(_ context.Context) error {
	return g.renderTo("gem/manifest.yml.tmpl", manifestFile)
}

func (g *Generator) createScripts(_ context.Context) error {
	scripts := [][2]string{
		{"gem/bin_generate.rb.tmpl", "bin/generate"},
		{"gem/bin_dev.sh.tmpl", "bin/dev"},
	}

	for _, s := range scripts {
		err := g.renderTo(s[0], s[1])
		if err != nil {
			return err
		}

		err = g.tree.MakeExecutable(s[1])
		if err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) createComponentDirectories(_ context.Context) error {
	err := g.tree.MakeDirectory(path.Join(g.bindings.EntryFolder, "components"))
	if err != nil {
		return err
	}

	err = g.tree.MakeDirectory("test/components")
	if err != nil {
		return err
	}

	return g.tree.CopyDir("assets/component", "templates/component")
}

func (g *Generator) moveDefaultTest(_ context.Context) error {
	return g.tree.Move(g.names.DefaultTestFile(), g.names.TestFile())
}

func (g *Generator) ensureRails(ctx context.Context) error {
	demo := g.cfg.DemoApp
	if demo.Check == "" || g.runner.RunQuiet(ctx, demo.Check, process.Options{}) {
		return nil
	}

	if demo.Install == "" {
		return fmt.Errorf("rails is not installed")
	}

	g.warnf("Rails is not installed, installing using %s", demo.Install)

	_, err := g.runner.Run(ctx, demo.Install, process.Options{})

	return err
}

func (g *Generator) generateDemoApp(ctx context.Context) error {
	appTemplate, err := g.renderer.RenderFile("dummy/app_template.rb.jet", g.bindings)
	if err != nil {
		return err
	}

	tf, err := os.CreateTemp("", "amberext-app-template-*.rb")
	if err != nil {
		return err
	}
	defer os.Remove(tf.Name())

	_, err = tf.WriteString(appTemplate)
	if err != nil {
		tf.Close()
		return err
	}

	err = tf.Close()
	if err != nil {
		return err
	}

	appPath, err := g.tree.Path(g.bindings.DummyAppPath)
	if err != nil {
		return err
	}

	gen := g.cfg.DemoApp.Generator
	_, err = g.runner.Run(ctx, gen.commandLine(appPath, "-m", tf.Name()), process.Options{
		PTY:   gen.PTY,
		Stdin: gen.Answers,
		Dir:   g.tree.Root(),
		Env:   map[string]string{g.cfg.DemoApp.EnvironmentVariable: g.names.PackageName},
	})

	return err
}

// stylesheet is the first existing candidate stylesheet or the last candidate when none exist
func (g *Generator) stylesheet() string {
	candidates := g.cfg.DemoApp.Stylesheets

	for _, s := range candidates {
		p := path.Join(g.bindings.DummyAppPath, s)
		if g.tree.Exists(p) {
			return p
		}
	}

	return path.Join(g.bindings.DummyAppPath, candidates[len(candidates)-1])
}

func (g *Generator) importStylesheet(_ context.Context) error {
	return g.appendTo("dummy/stylesheet_import.css.tmpl", g.stylesheet())
}

func (g *Generator) applyPatch(name string) error {
	pp, err := g.patches.Get(name)
	if err != nil {
		return err
	}

	file, err := g.renderer.RenderString(pp.Name+".file", pp.File, g.bindings)
	if err != nil {
		return &PatchError{Name: pp.Name, Version: pp.Version, Err: err}
	}

	var replacement string
	if pp.Template != "" {
		replacement, err = g.renderer.RenderFile(pp.Template, g.bindings)
	} else {
		replacement, err = g.renderer.RenderString(pp.Name+".replacement", pp.Replacement, g.bindings)
	}
	if err != nil {
		return &PatchError{Name: pp.Name, Version: pp.Version, Err: err}
	}

	err = g.tree.Substitute(file, pp.AnchorPattern(), strings.TrimSuffix(replacement, "\n"))
	if err != nil {
		return &PatchError{Name: pp.Name, Version: pp.Version, Err: err}
	}

	return nil
}

func (g *Generator) patchStep(name string) func(context.Context) error {
	return func(_ context.Context) error {
		return g.applyPatch(name)
	}
}

func (g *Generator) appendStep(tmpl string, target string) func(context.Context) error {
	return func(_ context.Context) error {
		return g.appendTo(tmpl, target)
	}
}

func (g *Generator) appendTo(tmpl string, target string) error {
	content, err := g.renderer.RenderFile(tmpl, g.bindings)
	if err != nil {
		return err
	}

	return g.tree.Append(target, content)
}

func (g *Generator) renderTo(tmpl string, target string) error {
	content, err := g.renderer.RenderFile(tmpl, g.bindings)
	if err != nil {
		return err
	}

	return g.tree.Create(target, content)
}

func (g *Generator) debugf(format string, v ...any) {
	if g.log != nil {
		g.log.Debugf(format, v...)
	}
}

func (g *Generator) infof(format string, v ...any) {
	if g.log != nil {
		g.log.Infof(format, v...)
	}
}

func (g *Generator) warnf(format string, v ...any) {
	if g.log != nil {
		g.log.Warnf(format, v...)
	}
}
