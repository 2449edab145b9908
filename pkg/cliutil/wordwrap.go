package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

func wrap(indent, width int, s string) string {
	if width == 0 {
		return s
	}
	limit := width - 5 - indent
	var ret strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			ret.WriteString("\n")
		}
		ret.WriteString(wrapLine(indent, limit, line))
	}
	return ret.String()
}

// wrapLine wraps a single line at space boundaries, preserving the line's
// leading indentation and runs of spaces between words that stay on the same
// line (the help text uses two-space sentence separation).
func wrapLine(indent, limit int, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	lead := line[:len(line)-len(trimmed)]

	var ret strings.Builder
	ret.WriteString(lead)
	cur := len(lead)
	sep := ""
	for _, word := range strings.Split(trimmed, " ") {
		if word == "" {
			// an empty field marks an extra space in the input
			sep += " "
			continue
		}
		if cur > len(lead) && cur+len(sep)+len(word) >= limit {
			ret.WriteString("\n")
			ret.WriteString(strings.Repeat(" ", indent))
			ret.WriteString(lead)
			cur = len(lead)
			sep = ""
		}
		ret.WriteString(sep)
		ret.WriteString(word)
		cur += len(sep) + len(word)
		sep = " "
	}
	return ret.String()
}
