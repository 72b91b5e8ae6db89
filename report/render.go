// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
	"strings"
)

const (
	Simple Style = 1 + iota
	Monochrome
	Colored
)

// Style indicates how a diagnostic should be rendered to show a user.
type Style int

// Render renders this diagnostic report in a format suitable for showing
// to a user.
func (r *Report) Render(style Style) string {
	var out strings.Builder
	var errors, warnings int
	for i := range *r {
		diagnostic := &(*r)[i]
		out.WriteString(diagnostic.Render(style))
		out.WriteString("\n")
		if style != Simple {
			out.WriteString("\n")
		}
		if diagnostic.Level == Error {
			errors++
		}
		if diagnostic.Level == Warning {
			warnings++
		}
	}
	if style == Simple {
		return out.String()
	}

	var color color
	if style == Colored {
		color = ansiColor()
	}

	pluralize := func(count int, what string) string {
		if count == 1 {
			return "1 " + what
		}
		return fmt.Sprint(count, " ", what, "s")
	}

	if errors > 0 {
		fmt.Fprint(&out, color.bRed, "encountered ", pluralize(errors, "error"))
		if warnings > 0 {
			fmt.Fprint(&out, " and ", pluralize(warnings, "warning"))
		}
		fmt.Fprintln(&out, color.reset)
	} else if warnings > 0 {
		fmt.Fprintln(&out, color.bYellow, "encountered ", pluralize(warnings, "warning"))
	}

	return out.String()
}

// Render renders this diagnostic in a format suitable for showing to a user.
func (d *Diagnostic) Render(style Style) string {
	var level string
	switch d.Level {
	case Error:
		level = "error"
	case Warning:
		level = "warning"
	case Remark:
		level = "remark"
	}

	// For the simple style, we imitate the Go compiler.
	if style == Simple {
		file, start, _ := d.Primary()
		if file.Path == "" {
			file.Path = "<unknown>"
		}
		if start.Line == 0 {
			return fmt.Sprintf("%s: %s: %s", level, file.Path, d.Err.Error())
		}
		return fmt.Sprintf("%s: %s:%d:%d: %s", level, file.Path, start.Line, start.Column, d.Err.Error())
	}

	// For the other styles, we imitate the Rust compiler. See
	// https://github.com/rust-lang/rustc-dev-guide/blob/master/src/diagnostics.md

	var color color
	if style == Colored {
		color = ansiColor()
	}

	var out strings.Builder
	fmt.Fprint(&out, color.BoldForLevel(d.Level), level, ": ", d.Err.Error(), color.reset)

	// Figure out how wide the line bar needs to be. This is given by
	// the width of the largest line value among the snippets.
	var greatestLine int
	for i := range d.snippets {
		greatestLine = max(greatestLine, d.snippets[i].end.Line)
	}
	lineBarWidth := max(2, len(fmt.Sprint(greatestLine)))

	bar := func(trail string) {
		out.WriteByte('\n')
		out.WriteString(color.nBlue)
		for range lineBarWidth {
			out.WriteByte(' ')
		}
		out.WriteString(trail)
	}

	// Render each snippet as its own little window. Snippets that share a
	// file share the window header.
	var lastPath string
	for i := range d.snippets {
		snip := &d.snippets[i]
		if i == 0 || snip.file.Path != lastPath {
			lastPath = snip.file.Path
			arrow := "--> "
			if i > 0 {
				arrow = "::: "
			}
			bar("")
			fmt.Fprintf(&out, "%s%s:%d:%d", arrow, snip.file.Path, snip.start.Line, snip.start.Column)
			bar(" | ")
		}

		// Carve the line containing the start of the span out of the file.
		text := snip.file.Text
		lineStart := strings.LastIndexByte(text[:snip.start.Offset], '\n') + 1
		lineEnd := len(text)
		if j := strings.IndexByte(text[lineStart:], '\n'); j != -1 {
			lineEnd = lineStart + j
		}
		line := strings.TrimRight(text[lineStart:lineEnd], "\r")

		var expanded strings.Builder
		lineWidth := stringWidth(0, line, &expanded)

		fmt.Fprintf(&out, "\n%s%*d | %s%s", color.nBlue, lineBarWidth, snip.start.Line, color.reset, expanded.String())

		// Underline the span. Spans that continue past the first line are
		// underlined to the end of that line.
		ulStart := snip.start.Column
		ulEnd := snip.end.Column
		if snip.end.Line != snip.start.Line {
			ulEnd = lineWidth + 1
		}
		if ulEnd <= ulStart {
			ulEnd = ulStart + 1
		}

		mark, paint := byte('^'), color.BoldForLevel(d.Level)
		if !snip.primary {
			mark, paint = '-', color.BoldForLevel(note)
		}

		bar(" | ")
		out.WriteString(color.reset)
		for range ulStart - 1 {
			out.WriteByte(' ')
		}
		out.WriteString(paint)
		for range ulEnd - ulStart {
			out.WriteByte(mark)
		}
		if snip.message != "" {
			out.WriteByte(' ')
			out.WriteString(snip.message)
		}
		out.WriteString(color.reset)
	}

	// Render a remedial file name for spanless errors.
	if len(d.snippets) == 0 {
		path := d.mention
		if path == "" {
			path = "<unknown>"
		}
		bar("")
		// Badly visually nested without adjusting for the arrow width.
		fmt.Fprintf(&out, "--> %s:?:?", path)
	}

	// Render the footers. For simplicity we collect them into an array first.
	var footers [][2]string
	for _, note := range d.notes {
		footers = append(footers, [2]string{"note", note})
	}
	for _, help := range d.help {
		footers = append(footers, [2]string{"help", help})
	}
	for i, frame := range d.trace {
		if debugMode < debugFull && i > 0 {
			break
		}
		footers = append(footers, [2]string{"debug", fmt.Sprintf("at %s", frame.Function)})
		footers = append(footers, [2]string{"debug", fmt.Sprintf("   %s:%d", frame.File, frame.Line)})
	}
	for _, footer := range footers {
		bar(" = ")
		fmt.Fprint(&out, color.bCyan, footer[0], ": ", color.reset, footer[1])
	}

	return out.String()
}

// color is the colors used for pretty-rendering diagnostics.
type color struct {
	reset string
	// Normal colors.
	nBlue string
	// Bold colors.
	bRed, bYellow, bCyan, bBlue string
}

func ansiColor() color {
	return color{
		reset:   "\033[0m",
		nBlue:   "\033[0;34m",
		bRed:    "\033[1;31m",
		bYellow: "\033[1;33m",
		bCyan:   "\033[1;36m",
		bBlue:   "\033[1;34m",
	}
}

func (c color) BoldForLevel(l Level) string {
	switch l {
	case Error:
		return c.bRed
	case Warning:
		return c.bYellow
	case Remark:
		return c.bCyan
	case note:
		return c.bBlue
	default:
		return ""
	}
}
