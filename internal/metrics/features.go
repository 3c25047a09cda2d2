package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds size features of a piece of text. The text itself is never kept.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word and line counts for s.
func CountFeatures(s string) Features {
	f := Features{Bytes: len(s), Runes: utf8.RuneCountInString(s), Words: len(strings.Fields(s))}
	// Empty text has no lines; otherwise every '\n' starts a new one.
	if s != "" {
		f.Lines = 1 + strings.Count(s, "\n")
	}
	return f
}

// Add accumulates o into f.
func (f *Features) Add(o Features) {
	f.Bytes += o.Bytes
	f.Runes += o.Runes
	f.Words += o.Words
	f.Lines += o.Lines
}

// Fields renders f for a telemetry event.
func (f Features) Fields() map[string]any {
	return map[string]any{
		"bytes": f.Bytes,
		"runes": f.Runes,
		"words": f.Words,
		"lines": f.Lines,
	}
}
