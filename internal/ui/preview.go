package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	thinkingPreviewLen = 100
	argPreviewLen      = 50
	resultPreviewLen   = 60
	maxSeparatorWidth  = 80
)

// ThinkingPreview flattens reasoning to one line of at most 100 characters.
func ThinkingPreview(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if utf8.RuneCountInString(flat) <= thinkingPreviewLen {
		return flat
	}
	return truncateRunes(flat, thinkingPreviewLen) + "..."
}

// ArgPreview shows the first argument present in declaration order, cut to
// 50 characters. Undeclared arguments are ignored.
func ArgPreview(args map[string]any, order []string) string {
	for _, name := range order {
		if v, ok := args[name]; ok && v != nil {
			return truncateRunes(fmt.Sprint(v), argPreviewLen)
		}
	}
	return ""
}

// ResultPreview shows the first line of a tool result, cut to 60 characters,
// with a count of the lines left out.
func ResultPreview(result string) string {
	lines := strings.Split(result, "\n")
	first := lines[0]
	preview := truncateRunes(first, resultPreviewLen)
	switch {
	case len(lines) > 1:
		preview += fmt.Sprintf(" ... +%d lines", len(lines)-1)
	case utf8.RuneCountInString(first) > resultPreviewLen:
		preview += "..."
	}
	return preview
}

// ToolTitle renders a tool name the way calls are announced: "read" -> "Read".
func ToolTitle(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r)) + name[size:]
}

// SeparatorWidth caps the terminal width at 80 columns. A non-positive
// width (no terminal) uses the cap.
func SeparatorWidth(cols int) int {
	if cols <= 0 || cols > maxSeparatorWidth {
		return maxSeparatorWidth
	}
	return cols
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
