// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"strings"
	"text/template"

	"github.com/CloudyKit/jet/v6"
)

// TemplateError is returned when a template cannot be read, parsed or executed
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("rendering template %s failed: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Renderer renders templates from a read only source, templates with a .jet extension
// use the Jet engine and all others use Go templates
type Renderer struct {
	source     fs.FS
	funcs      template.FuncMap
	jetFuncs   map[string]jet.Func
	leftDelim  string
	rightDelim string
}

// NewRenderer creates a renderer reading templates from source, funcs are added to Go
// templates and jetFuncs to Jet templates
func NewRenderer(source fs.FS, funcs template.FuncMap, jetFuncs map[string]jet.Func) *Renderer {
	return &Renderer{source: source, funcs: funcs, jetFuncs: jetFuncs}
}

// Delims sets custom delimiters for both engines, ignored unless both are set
func (r *Renderer) Delims(left string, right string) {
	if left == "" || right == "" {
		return
	}

	r.leftDelim = left
	r.rightDelim = right
}

// RenderFile renders the template name from the source
func (r *Renderer) RenderFile(name string, bindings Bindings) (string, error) {
	return r.renderFile(name, bindings.Map())
}

// RenderString renders text as a template called name, the name selects the engine
func (r *Renderer) RenderString(name string, text string, bindings Bindings) (string, error) {
	return r.render(name, text, bindings.Map())
}

func (r *Renderer) renderFile(name string, data map[string]any) (string, error) {
	if r.source == nil {
		return "", &TemplateError{Template: name, Err: fmt.Errorf("no source configured")}
	}

	td, err := fs.ReadFile(r.source, path.Clean(name))
	if err != nil {
		return "", &TemplateError{Template: name, Err: err}
	}

	return r.render(name, string(td), data)
}

func (r *Renderer) render(name string, text string, data map[string]any) (string, error) {
	var res string
	var err error

	if strings.HasSuffix(name, ".jet") {
		res, err = r.renderJet(name, text, data)
	} else {
		res, err = r.renderGoTempl(name, text, data)
	}
	if err != nil {
		return "", &TemplateError{Template: name, Err: err}
	}

	return res, nil
}

func (r *Renderer) templateFuncs(data map[string]any) template.FuncMap {
	funcs := template.FuncMap{}
	for k, v := range r.funcs {
		funcs[k] = v
	}

	funcs["render"] = func(templ string) (string, error) {
		return r.renderFile(templ, data)
	}

	return funcs
}

func (r *Renderer) jetTemplateFuncs(data map[string]any) map[string]jet.Func {
	funcs := make(map[string]jet.Func)
	for k, v := range r.jetFuncs {
		funcs[k] = v
	}

	funcs["render"] = func(args jet.Arguments) reflect.Value {
		args.RequireNumOfArguments("render", 1, 1)

		var templ string
		if err := args.ParseInto(&templ); err != nil {
			args.Panicf("render: %v", err)
		}

		res, err := r.renderFile(templ, data)
		if err != nil {
			args.Panicf("render: %v", err)
		}

		return reflect.ValueOf(res)
	}

	return funcs
}

func (r *Renderer) renderGoTempl(name string, text string, data map[string]any) (string, error) {
	templ := template.New(path.Base(name)).Option("missingkey=error").Funcs(r.templateFuncs(data))
	if r.leftDelim != "" {
		templ.Delims(r.leftDelim, r.rightDelim)
	}

	templ, err := templ.Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing failed: %w", err)
	}

	buf := bytes.NewBuffer([]byte{})
	err = templ.Execute(buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (r *Renderer) renderJet(name string, text string, data map[string]any) (string, error) {
	base := path.Base(name)

	loader := jet.NewInMemLoader()
	loader.Set(base, text)

	opts := []jet.Option{jet.WithSafeWriter(nil)}
	if r.leftDelim != "" {
		opts = append(opts, jet.WithDelims(r.leftDelim, r.rightDelim))
	}

	set := jet.NewSet(loader, opts...)

	for k, fn := range r.jetTemplateFuncs(data) {
		set.AddGlobalFunc(k, fn)
	}

	t, err := set.GetTemplate(base)
	if err != nil {
		return "", fmt.Errorf("parsing failed: %w", err)
	}

	vars := make(jet.VarMap)
	for k, v := range data {
		vars.Set(k, v)
	}

	buf := bytes.NewBuffer([]byte{})
	err = t.Execute(buf, vars, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
