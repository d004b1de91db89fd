// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed patches.yaml
var patchesYAML []byte

// PatchPoint is a named and versioned change to a file produced by an external tool
type PatchPoint struct {
	Name        string `yaml:"name"`
	Version     int    `yaml:"version"`
	Description string `yaml:"description"`
	// File is a template resolving to the path of the patched file
	File string `yaml:"file"`
	// Anchor is a regular expression, its first match is replaced
	Anchor string `yaml:"anchor"`
	// Replacement is rendered as a template and replaces the anchor, mutually exclusive with Template
	Replacement string `yaml:"replacement"`
	// Template is the source template rendered to replace the anchor
	Template string `yaml:"template"`

	anchor *regexp.Regexp
}

// PatchError is returned when a patch point cannot be applied, typically because the
// external tool changed its output and the anchor no longer matches
type PatchError struct {
	Name    string
	Version int
	Err     error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s version %d failed: %v", e.Name, e.Version, e.Err)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}

// PatchSet is a catalogue of patch points
type PatchSet struct {
	points map[string]*PatchPoint
	order  []string
}

// DefaultPatchSet loads the built in patch points
func DefaultPatchSet() (*PatchSet, error) {
	return LoadPatchSet(patchesYAML)
}

// LoadPatchSet parses and validates a YAML patch point catalogue
func LoadPatchSet(data []byte) (*PatchSet, error) {
	var doc struct {
		Patches []*PatchPoint `yaml:"patches"`
	}

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("invalid patch points: %w", err)
	}

	set := &PatchSet{points: map[string]*PatchPoint{}}

	for i, p := range doc.Patches {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("patch point %d has no name", i)
		case set.points[p.Name] != nil:
			return nil, fmt.Errorf("duplicate patch point %s", p.Name)
		case p.Version < 1:
			return nil, fmt.Errorf("patch point %s requires a version", p.Name)
		case p.File == "":
			return nil, fmt.Errorf("patch point %s requires a file", p.Name)
		case p.Anchor == "":
			return nil, fmt.Errorf("patch point %s requires an anchor", p.Name)
		case (p.Replacement == "") == (p.Template == ""):
			return nil, fmt.Errorf("patch point %s requires either a replacement or a template", p.Name)
		}

		p.anchor, err = regexp.Compile(p.Anchor)
		if err != nil {
			return nil, fmt.Errorf("patch point %s has an invalid anchor: %w", p.Name, err)
		}

		set.points[p.Name] = p
		set.order = append(set.order, p.Name)
	}

	return set, nil
}

// Get looks up a patch point by name
func (s *PatchSet) Get(name string) (*PatchPoint, error) {
	p, ok := s.points[name]
	if !ok {
		return nil, fmt.Errorf("unknown patch point %s", name)
	}

	return p, nil
}

// Names lists the patch points in catalogue order
func (s *PatchSet) Names() []string {
	return append([]string{}, s.order...)
}

// AnchorPattern is the compiled anchor
func (p *PatchPoint) AnchorPattern() *regexp.Regexp {
	return p.anchor
}
