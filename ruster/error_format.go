package ruster

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the line at pos, preceded by the line before it
// for context, with a caret under the column.
func formatCodeFrame(source string, pos Position) string {
	lines := strings.Split(source, "\n")
	if source == "" || pos.Line <= 0 || pos.Line > len(lines) {
		return ""
	}

	width := len(strconv.Itoa(pos.Line))
	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d\n", pos.Line, pos.Column)
	for n := max(pos.Line-1, 1); n <= pos.Line; n++ {
		fmt.Fprintf(&b, " %*d | %s\n", width, n, strings.TrimRight(lines[n-1], "\r"))
	}
	fmt.Fprintf(&b, " %*s | %s^", width, "", caretPad(lines[pos.Line-1], pos.Column))
	return b.String()
}

// caretPad is the indentation that puts a caret under column. Tabs are
// kept so the caret lines up with tab-indented source.
func caretPad(line string, column int) string {
	runes := []rune(strings.TrimRight(line, "\r"))
	column = min(max(column, 1), len(runes)+1)
	var b strings.Builder
	for _, r := range runes[:column-1] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
