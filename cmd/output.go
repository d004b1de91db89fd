// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/choria-io/amberext/fileops"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var verbColors = map[fileops.Verb]text.Colors{
	fileops.VerbCreate:     {text.FgGreen, text.Bold},
	fileops.VerbCopy:       {text.FgGreen},
	fileops.VerbMove:       {text.FgYellow},
	fileops.VerbSubstitute: {text.FgBlue, text.Bold},
	fileops.VerbAppend:     {text.FgCyan},
	fileops.VerbPrepend:    {text.FgCyan},
	fileops.VerbMkdir:      {text.FgHiBlack},
	fileops.VerbChmod:      {text.FgHiBlack},
}

func printOperation(w io.Writer, op fileops.Operation) {
	verb := fmt.Sprintf("%12s", op.Verb)
	if c, ok := verbColors[op.Verb]; ok {
		verb = c.Sprint(verb)
	}

	fmt.Fprintf(w, "%s  %s\n", verb, op.Path)
}

func printSummary(w io.Writer, target string, counts map[fileops.Verb]int) {
	verbs := make([]string, 0, len(counts))
	for v := range counts {
		verbs = append(verbs, string(v))
	}
	sort.Strings(verbs)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleRounded)
	tbl.SetTitle("Generated %s", target)
	tbl.AppendHeader(table.Row{"Operation", "Files"})

	total := 0
	for _, v := range verbs {
		tbl.AppendRow(table.Row{v, counts[fileops.Verb(v)]})
		total += counts[fileops.Verb(v)]
	}
	tbl.AppendFooter(table.Row{"Total", total})

	fmt.Fprintln(w)
	tbl.Render()
}
