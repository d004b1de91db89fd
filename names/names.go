// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package names derives every identifier used while generating an extension gem
// from the target directory path: the gem name, its nested require path and the
// Ruby module it defines.
package names

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NamespaceSeparator joins the segments of a module identifier
const NamespaceSeparator = "::"

var (
	leadingRun   = regexp.MustCompile(`^[a-z\d]*`)
	delimitedRun = regexp.MustCompile(`(?:_|(/))([a-z\d]*)`)
)

// Names holds the identifiers derived from a target path
type Names struct {
	// PackageName is the final path segment, e.g. sample-widgets
	PackageName string
	// PackagePath is PackageName with hyphens turned into slashes, e.g. sample/widgets
	PackagePath string
	// PackageBase is the last segment of PackagePath, e.g. widgets
	PackageBase string
	// ModuleName is the nested Ruby module, e.g. Sample::Widgets
	ModuleName string
}

// Derive computes all names for the gem generated at targetPath
func Derive(targetPath string) Names {
	name := PackageName(targetPath)
	pkgPath := PackagePath(name)

	return Names{
		PackageName: name,
		PackagePath: pkgPath,
		PackageBase: path.Base(pkgPath),
		ModuleName:  Camelize(pkgPath),
	}
}

// PackageName is the final component of targetPath, taken verbatim
func PackageName(targetPath string) string {
	if targetPath == "" {
		return ""
	}

	return filepath.Base(targetPath)
}

// PackagePath turns a gem name into the slash separated path of its entry file
func PackagePath(name string) string {
	return strings.ReplaceAll(name, "-", "/")
}

// EntryFolder is the directory holding the gem sources, e.g. lib/sample/widgets
func (n Names) EntryFolder() string {
	return path.Join("lib", n.PackagePath)
}

// EntryFile is the file bundler generates as the gem entry point, e.g. lib/sample/widgets.rb
func (n Names) EntryFile() string {
	return n.EntryFolder() + ".rb"
}

// Gemspec is the gem manifest file name
func (n Names) Gemspec() string {
	return n.PackageName + ".gemspec"
}

// DefaultTestFile is the minitest file bundler creates, test/sample/test_widgets.rb for sample-widgets
func (n Names) DefaultTestFile() string {
	return path.Join("test", path.Dir(n.PackagePath), "test_"+n.PackageBase+".rb")
}

// TestFile is the name the default test file is renamed to, test/sample/widgets_test.rb for sample-widgets
func (n Names) TestFile() string {
	return path.Join("test", path.Dir(n.PackagePath), n.PackageBase+"_test.rb")
}

// RelativeRoot returns the path leading from the slash separated directory dir back to the
// gem root, "../.." for lib/sample
func RelativeRoot(dir string) string {
	dir = path.Clean(dir)
	if dir == "." || dir == "" {
		return "."
	}

	parts := strings.Split(dir, "/")
	ups := make([]string, len(parts))
	for i := range parts {
		ups[i] = ".."
	}

	return strings.Join(ups, "/")
}

// Camelize converts a slash separated path into a nested module name the way Rails does
// for an upper case first letter: the leading run of lower case letters and digits is
// capitalized, every run following an underscore or slash is capitalized with the underscore
// dropped, and finally slashes and hyphens become the namespace separator.
//
// Segments that already contain capitals are left as they are after the leading run,
// so "myGem" becomes "MyGem" and "foo_Bar" becomes "FooBar".
func Camelize(s string) string {
	s = leadingRun.ReplaceAllStringFunc(s, capitalize)

	var sb strings.Builder
	last := 0
	for _, m := range delimitedRun.FindAllStringSubmatchIndex(s, -1) {
		sb.WriteString(s[last:m[0]])
		if m[2] >= 0 {
			sb.WriteString(s[m[2]:m[3]])
		}
		sb.WriteString(capitalize(s[m[4]:m[5]]))
		last = m[1]
	}
	sb.WriteString(s[last:])

	out := strings.ReplaceAll(sb.String(), "/", NamespaceSeparator)

	return strings.ReplaceAll(out, "-", NamespaceSeparator)
}

// capitalize upper cases the first rune and lower cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
