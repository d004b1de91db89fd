// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package fileops applies file system changes to a generated directory tree.
//
// Every operation takes a slash separated path relative to the tree root, is applied
// immediately and recorded in an ordered operation log. Nothing is retried or rolled
// back: the first failure is returned to the caller.
package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Verb names a kind of file operation
type Verb string

const (
	VerbCreate     Verb = "create"
	VerbCopy       Verb = "copy"
	VerbMove       Verb = "move"
	VerbSubstitute Verb = "substitute"
	VerbAppend     Verb = "append"
	VerbPrepend    Verb = "prepend"
	VerbMkdir      Verb = "mkdir"
	VerbChmod      Verb = "chmod"
)

// Operation is a log entry of a completed operation
type Operation struct {
	Verb Verb
	Path string
}

// Logger receives debug output for every operation
type Logger interface {
	Debugf(format string, v ...any)
}

// Option configures a Tree
type Option func(*Tree)

// WithObserver calls cb after every successful operation
func WithObserver(cb func(Operation)) Option {
	return func(t *Tree) {
		t.observer = cb
	}
}

// WithLogger configures a logger to use, no logging is done without this
func WithLogger(log Logger) Option {
	return func(t *Tree) {
		t.log = log
	}
}

// Tree is a directory being populated from a read only source of templates and assets
type Tree struct {
	root     string
	source   fs.FS
	ops      []Operation
	observer func(Operation)
	log      Logger
}

// New creates a tree rooted at root, copies read from source
func New(root string, source fs.FS, opts ...Option) (*Tree, error) {
	if root == "" {
		return nil, fmt.Errorf("root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %v", root, err)
	}

	t := &Tree{root: abs, source: source}
	for _, o := range opts {
		o(t)
	}

	return t, nil
}

// Root is the absolute path of the tree
func (t *Tree) Root() string {
	return t.root
}

// Operations returns a copy of the operations performed so far in the order they happened
func (t *Tree) Operations() []Operation {
	return append([]Operation{}, t.ops...)
}

// Path resolves rel to an absolute path inside the tree
func (t *Tree) Path(rel string) (string, error) {
	abs := filepath.Join(t.root, filepath.FromSlash(rel))
	if !containedInDir(abs, t.root) {
		return "", fmt.Errorf("%s is not in directory %s", rel, t.root)
	}

	return abs, nil
}

// Exists reports whether rel exists in the tree
func (t *Tree) Exists(rel string) bool {
	abs, err := t.Path(rel)
	if err != nil {
		return false
	}

	_, err = os.Stat(abs)
	return err == nil
}

// Create writes content to rel, creating parent directories and replacing any existing file
func (t *Tree) Create(rel string, content string) error {
	abs, err := t.resolve(VerbCreate, rel)
	if err != nil {
		return err
	}

	err = writeFile(abs, content)
	if err != nil {
		return &IOError{Op: VerbCreate, Path: rel, Err: err}
	}

	t.record(VerbCreate, rel)

	return nil
}

// Copy copies the single file src from the source into the tree at dst
func (t *Tree) Copy(src string, dst string) error {
	data, err := t.readSource(src)
	if err != nil {
		return &IOError{Op: VerbCopy, Path: src, Err: err}
	}

	abs, err := t.resolve(VerbCopy, dst)
	if err != nil {
		return err
	}

	err = writeFile(abs, string(data))
	if err != nil {
		return &IOError{Op: VerbCopy, Path: dst, Err: err}
	}

	t.record(VerbCopy, dst)

	return nil
}

// CopyDir recursively copies the directory src from the source into the tree at dst
func (t *Tree) CopyDir(src string, dst string) error {
	if t.source == nil {
		return &IOError{Op: VerbCopy, Path: src, Err: fmt.Errorf("no source configured")}
	}

	src = path.Clean(src)
	info, err := fs.Stat(t.source, src)
	if err != nil {
		return &IOError{Op: VerbCopy, Path: src, Err: err}
	}
	if !info.IsDir() {
		return &IOError{Op: VerbCopy, Path: src, Err: fmt.Errorf("not a directory")}
	}

	return fs.WalkDir(t.source, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IOError{Op: VerbCopy, Path: p, Err: err}
		}

		target := dst
		switch {
		case p == src:
		case src == ".":
			target = path.Join(dst, p)
		default:
			target = path.Join(dst, strings.TrimPrefix(p, src+"/"))
		}

		switch {
		case d.IsDir():
			abs, err := t.resolve(VerbCopy, target)
			if err != nil {
				return err
			}
			err = os.MkdirAll(abs, 0755)
			if err != nil {
				return &IOError{Op: VerbCopy, Path: target, Err: err}
			}

			return nil

		case d.Type().IsRegular():
			return t.Copy(p, target)

		default:
			return &IOError{Op: VerbCopy, Path: p, Err: fmt.Errorf("invalid file in source")}
		}
	})
}

// Move renames src to dst within the tree
func (t *Tree) Move(src string, dst string) error {
	absSrc, err := t.Path(src)
	if err != nil {
		return &IOError{Op: VerbMove, Path: src, Err: err}
	}

	_, err = os.Lstat(absSrc)
	if err != nil {
		return &IOError{Op: VerbMove, Path: src, Err: err}
	}

	absDst, err := t.resolve(VerbMove, dst)
	if err != nil {
		return err
	}

	err = os.Rename(absSrc, absDst)
	if err != nil {
		return &IOError{Op: VerbMove, Path: src, Err: err}
	}

	t.record(VerbMove, dst)

	return nil
}

// Substitute replaces the first match of anchor in rel with replacement, taken literally.
// When anchor does not match a SubstitutionError is returned and the file is left unmodified.
func (t *Tree) Substitute(rel string, anchor *regexp.Regexp, replacement string) error {
	abs, err := t.Path(rel)
	if err != nil {
		return &IOError{Op: VerbSubstitute, Path: rel, Err: err}
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return &IOError{Op: VerbSubstitute, Path: rel, Err: err}
	}

	loc := anchor.FindIndex(content)
	if loc == nil {
		return &SubstitutionError{Path: rel, Anchor: anchor.String()}
	}

	var sb strings.Builder
	sb.Write(content[:loc[0]])
	sb.WriteString(replacement)
	sb.Write(content[loc[1]:])

	err = writeFile(abs, sb.String())
	if err != nil {
		return &IOError{Op: VerbSubstitute, Path: rel, Err: err}
	}

	t.record(VerbSubstitute, rel)

	return nil
}

// Append adds content to the end of rel, a missing file is created
func (t *Tree) Append(rel string, content string) error {
	abs, err := t.resolve(VerbAppend, rel)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: VerbAppend, Path: rel, Err: err}
	}

	err = writeFile(abs, string(existing)+content)
	if err != nil {
		return &IOError{Op: VerbAppend, Path: rel, Err: err}
	}

	t.record(VerbAppend, rel)

	return nil
}

// Prepend adds content to the start of the existing file rel
func (t *Tree) Prepend(rel string, content string) error {
	abs, err := t.Path(rel)
	if err != nil {
		return &IOError{Op: VerbPrepend, Path: rel, Err: err}
	}

	existing, err := os.ReadFile(abs)
	if err != nil {
		return &IOError{Op: VerbPrepend, Path: rel, Err: err}
	}

	err = writeFile(abs, content+string(existing))
	if err != nil {
		return &IOError{Op: VerbPrepend, Path: rel, Err: err}
	}

	t.record(VerbPrepend, rel)

	return nil
}

// MakeDirectory creates rel and any missing parents, existing directories are not an error
func (t *Tree) MakeDirectory(rel string) error {
	abs, err := t.Path(rel)
	if err != nil {
		return &IOError{Op: VerbMkdir, Path: rel, Err: err}
	}

	err = os.MkdirAll(abs, 0755)
	if err != nil {
		return &IOError{Op: VerbMkdir, Path: rel, Err: err}
	}

	t.record(VerbMkdir, rel)

	return nil
}

// MakeExecutable allows owner, group and others to execute rel
func (t *Tree) MakeExecutable(rel string) error {
	abs, err := t.Path(rel)
	if err != nil {
		return &IOError{Op: VerbChmod, Path: rel, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return &IOError{Op: VerbChmod, Path: rel, Err: err}
	}

	err = os.Chmod(abs, info.Mode().Perm()|0111)
	if err != nil {
		return &IOError{Op: VerbChmod, Path: rel, Err: err}
	}

	t.record(VerbChmod, rel)

	return nil
}

// resolve finds the absolute path for rel and makes sure its parent directory exists
func (t *Tree) resolve(op Verb, rel string) (string, error) {
	abs, err := t.Path(rel)
	if err != nil {
		return "", &IOError{Op: op, Path: rel, Err: err}
	}

	err = os.MkdirAll(filepath.Dir(abs), 0755)
	if err != nil {
		return "", &IOError{Op: op, Path: rel, Err: err}
	}

	return abs, nil
}

func (t *Tree) readSource(src string) ([]byte, error) {
	if t.source == nil {
		return nil, fmt.Errorf("no source configured")
	}

	return fs.ReadFile(t.source, path.Clean(src))
}

func (t *Tree) record(verb Verb, rel string) {
	op := Operation{Verb: verb, Path: rel}
	t.ops = append(t.ops, op)

	if t.log != nil {
		t.log.Debugf("%s %s", verb, rel)
	}

	if t.observer != nil {
		t.observer(op)
	}
}

func writeFile(abs string, content string) error {
	return os.WriteFile(abs, []byte(content), 0644)
}

func containedInDir(path string, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
