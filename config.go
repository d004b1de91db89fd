// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/choria-io/amberext/process"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Command configures an external tool invocation
type Command struct {
	// Command is the tool and any sub command, e.g. bundle gem
	Command string `yaml:"command"`
	// Arguments are passed after Command and before any positional arguments
	Arguments []string `yaml:"arguments"`
	// Answers is typed into the terminal of the tool when PTY is set
	Answers string `yaml:"answers"`
	// PTY attaches the tool to a pseudo terminal
	PTY bool `yaml:"pty"`
}

// commandLine builds the full command line with positional arguments quoted as needed
func (c Command) commandLine(positional ...string) string {
	parts := []string{c.Command}
	if len(c.Arguments) > 0 {
		parts = append(parts, process.CommandLine(c.Arguments...))
	}
	if len(positional) > 0 {
		parts = append(parts, process.CommandLine(positional...))
	}

	return strings.Join(parts, " ")
}

// DemoApp configures the demonstration Rails application
type DemoApp struct {
	// Enabled generates the demonstration app after the gem
	Enabled bool `yaml:"enabled"`
	// Path is the slash separated location of the app inside the gem
	Path string `yaml:"path"`
	// Check is a command that succeeds when Rails is installed
	Check string `yaml:"check"`
	// Install installs Rails when Check fails
	Install string `yaml:"install"`
	// Generator creates the app, the app path and application template are appended
	Generator Command `yaml:"generator"`
	// EnvironmentVariable passes the gem name to the application template
	EnvironmentVariable string `yaml:"environment_variable"`
	// Stylesheets are candidates for the component stylesheet import, the first existing one is used
	// and the last one is created when none exist
	Stylesheets []string `yaml:"stylesheets"`
}

// Config configures a generator
type Config struct {
	// TargetDirectory is where the gem is generated, the last path segment is the gem name
	TargetDirectory string `yaml:"target"`
	// MergeTargetDirectory generates into an existing target directory
	MergeTargetDirectory bool `yaml:"merge_target_directory"`
	// Version is the version of the component framework the gem depends on
	Version string `yaml:"version"`
	// FrameworkGem is the component framework gem
	FrameworkGem string `yaml:"framework_gem"`
	// NameValidation is an expression the gem name has to satisfy
	NameValidation string `yaml:"name_validation"`
	// Scaffolder generates the gem skeleton, the target directory is appended
	Scaffolder Command `yaml:"scaffolder"`
	// DemoApp configures the demonstration app
	DemoApp DemoApp `yaml:"demo_app"`
	// Sets a custom template delimiter, useful for templates that emit the default delimiters
	CustomLeftDelimiter string `yaml:"left_delimiter"`
	// Sets a custom template delimiter, useful for templates that emit the default delimiters
	CustomRightDelimiter string `yaml:"right_delimiter"`
}

// DefaultConfig is the built in configuration without a target or version
func DefaultConfig() (Config, error) {
	return ParseConfig(nil)
}

// ParseConfig reads YAML data over the built in defaults
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	err := yaml.Unmarshal(defaultsYAML, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("invalid default configuration: %w", err)
	}

	if len(data) > 0 {
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.TargetDirectory == "" {
		return fmt.Errorf("target is required")
	}

	var err error
	cfg.TargetDirectory, err = filepath.Abs(cfg.TargetDirectory)
	if err != nil {
		return fmt.Errorf("invalid target %s: %v", cfg.TargetDirectory, err)
	}

	if !cfg.MergeTargetDirectory {
		_, err := os.Stat(cfg.TargetDirectory)
		if err == nil {
			return fmt.Errorf("target directory exists")
		}
	}

	if cfg.Version == "" {
		return fmt.Errorf("version is required")
	}

	_, err = semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", cfg.Version, err)
	}

	if cfg.FrameworkGem == "" {
		return fmt.Errorf("framework gem is required")
	}

	if cfg.Scaffolder.Command == "" {
		return fmt.Errorf("scaffolder command is required")
	}

	if (cfg.CustomLeftDelimiter == "") != (cfg.CustomRightDelimiter == "") {
		return fmt.Errorf("both left and right delimiters are required")
	}

	if !cfg.DemoApp.Enabled {
		return nil
	}

	switch {
	case cfg.DemoApp.Path == "":
		return fmt.Errorf("demo app path is required")
	case !filepath.IsLocal(cfg.DemoApp.Path):
		return fmt.Errorf("demo app path %s is not inside the target directory", cfg.DemoApp.Path)
	case cfg.DemoApp.Generator.Command == "":
		return fmt.Errorf("demo app generator command is required")
	case cfg.DemoApp.EnvironmentVariable == "":
		return fmt.Errorf("demo app environment variable is required")
	case len(cfg.DemoApp.Stylesheets) == 0:
		return fmt.Errorf("at least one demo app stylesheet is required")
	}

	cfg.DemoApp.Path = path.Clean(filepath.ToSlash(cfg.DemoApp.Path))

	return nil
}
