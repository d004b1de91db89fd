// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package confirm

import (
	"regexp"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	colorMap = map[string]text.Color{
		"bold":    text.Bold,
		"red":     text.FgRed,
		"green":   text.FgGreen,
		"yellow":  text.FgYellow,
		"blue":    text.FgBlue,
		"magenta": text.FgMagenta,
		"cyan":    text.FgCyan,
		"white":   text.FgWhite,
		"hiblack": text.FgHiBlack,
	}

	// innermost tag pair, the content holds no further tags
	markupTag = regexp.MustCompile(`\{([a-zA-Z]+)\}([^{}]*)\{/([a-zA-Z]+)\}`)
)

// colorMarkup colors text wrapped in tags like {bold}text{/bold}, tags nest and unknown
// colors are removed leaving their content
func colorMarkup(input string) string {
	result := input

	for {
		changed := false

		result = markupTag.ReplaceAllStringFunc(result, func(m string) string {
			parts := markupTag.FindStringSubmatch(m)
			if parts[1] != parts[3] {
				return m
			}

			changed = true

			color, ok := colorMap[strings.ToLower(parts[1])]
			if !ok {
				return parts[2]
			}

			return text.Colors{color}.Sprint(parts[2])
		})

		if !changed {
			return result
		}
	}
}
