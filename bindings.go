// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	"fmt"
	"path"

	"github.com/Masterminds/semver/v3"
	"github.com/choria-io/amberext/names"
)

// Bindings are the values available to every template, built once per generator
type Bindings struct {
	PackageName string
	PackagePath string
	PackageBase string
	ModuleName  string
	EntryFolder string
	EntryFile   string

	// FrameworkGem is the component framework the gem extends
	FrameworkGem string
	// Version is the framework version the gem is generated for
	Version string
	// VersionRequirement is the pessimistic requirement for Version, e.g. ~> 0.9
	VersionRequirement string

	// RootRelativePath leads from the directory of EntryFile to the gem root
	RootRelativePath string

	DummyAppPath                string
	DummyRootRelativePath       string
	DummyConfigRootRelativePath string
	EnvironmentVariable         string
}

func newBindings(n names.Names, cfg *Config) (Bindings, error) {
	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return Bindings{}, fmt.Errorf("invalid version %q: %w", cfg.Version, err)
	}

	b := Bindings{
		PackageName:         n.PackageName,
		PackagePath:         n.PackagePath,
		PackageBase:         n.PackageBase,
		ModuleName:          n.ModuleName,
		EntryFolder:         n.EntryFolder(),
		EntryFile:           n.EntryFile(),
		FrameworkGem:        cfg.FrameworkGem,
		Version:             v.String(),
		VersionRequirement:  fmt.Sprintf("~> %d.%d", v.Major(), v.Minor()),
		RootRelativePath:    names.RelativeRoot(path.Dir(n.EntryFile())),
		EnvironmentVariable: cfg.DemoApp.EnvironmentVariable,
	}

	if cfg.DemoApp.Path != "" {
		b.DummyAppPath = cfg.DemoApp.Path
		b.DummyRootRelativePath = names.RelativeRoot(cfg.DemoApp.Path)
		b.DummyConfigRootRelativePath = names.RelativeRoot(path.Join(cfg.DemoApp.Path, "config"))
	}

	return b, nil
}

// Map is the form templates receive the bindings in, a new map on every call
func (b Bindings) Map() map[string]any {
	return map[string]any{
		"PackageName":                 b.PackageName,
		"PackagePath":                 b.PackagePath,
		"PackageBase":                 b.PackageBase,
		"ModuleName":                  b.ModuleName,
		"EntryFolder":                 b.EntryFolder,
		"EntryFile":                   b.EntryFile,
		"FrameworkGem":                b.FrameworkGem,
		"Version":                     b.Version,
		"VersionRequirement":          b.VersionRequirement,
		"RootRelativePath":            b.RootRelativePath,
		"DummyAppPath":                b.DummyAppPath,
		"DummyRootRelativePath":       b.DummyRootRelativePath,
		"DummyConfigRootRelativePath": b.DummyConfigRootRelativePath,
		"EnvironmentVariable":         b.EnvironmentVariable,
	}
}
