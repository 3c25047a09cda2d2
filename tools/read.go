package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/petasbytes/nanocode/internal/fsops"
)

// ReadTool returns a file as line-numbered text.
type ReadTool struct {
	ws *fsops.Workspace
}

func (t *ReadTool) Spec() Spec {
	return Spec{
		Name:        "read",
		Description: "Read file with line numbers (file path, not directory)",
		Params: []Param{
			{Name: "path", Type: TypeString, Description: "File path, relative to the working directory or absolute."},
			{Name: "offset", Type: TypeNumber, Optional: true, Description: "0-based line to start from."},
			{Name: "limit", Type: TypeNumber, Optional: true, Description: "Maximum lines to return (default: the rest of the file)."},
		},
	}
}

// Execute numbers lines from offset+1. Lines keep their own terminators, so
// the output of a file without a final newline ends without one.
func (t *ReadTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.RequireString("path")
	if err != nil {
		return "", err
	}
	content, err := t.ws.ReadFile(path)
	if err != nil {
		return "", err
	}

	lines := splitLinesKeepEnds(content)
	offset := args.Int("offset", 0)
	if offset < 0 {
		offset = 0
	}
	if offset > len(lines) {
		offset = len(lines)
	}
	limit := args.Int("limit", len(lines)-offset)
	end := offset + limit
	if limit < 0 || end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		fmt.Fprintf(&b, "%4d| %s", i+1, lines[i])
	}
	return b.String(), nil
}

func splitLinesKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
