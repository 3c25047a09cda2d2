package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petasbytes/nanocode/internal/fsops"
)

var errOldNotFound = errors.New("old_string not found")

// EditTool performs exact-substring replacement. Without all=true the target
// must occur exactly once; an ambiguous edit leaves the file untouched.
type EditTool struct {
	ws *fsops.Workspace
}

func (t *EditTool) Spec() Spec {
	return Spec{
		Name:        "edit",
		Description: "Replace old with new in file (old must be unique unless all=true)",
		Params: []Param{
			{Name: "path", Type: TypeString, Description: "File to edit."},
			{Name: "old", Type: TypeString, Description: "Exact text to replace."},
			{Name: "new", Type: TypeString, Description: "Replacement text."},
			{Name: "all", Type: TypeBoolean, Optional: true, Description: "Replace every occurrence."},
		},
	}
}

func (t *EditTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.RequireString("path")
	if err != nil {
		return "", err
	}
	old, err := args.RequireString("old")
	if err != nil {
		return "", err
	}
	repl, err := args.RequireString("new")
	if err != nil {
		return "", err
	}
	if old == "" {
		return "", fmt.Errorf("old must not be empty")
	}

	text, err := t.ws.ReadFile(path)
	if err != nil {
		return "", err
	}

	n := strings.Count(text, old)
	switch {
	case n == 0:
		return "", errOldNotFound
	case n > 1 && !args.Bool("all"):
		return "", fmt.Errorf("old_string appears %d times, must be unique (use all=true)", n)
	}

	var updated string
	if args.Bool("all") {
		updated = strings.ReplaceAll(text, old, repl)
	} else {
		updated = strings.Replace(text, old, repl, 1)
	}
	if err := t.ws.WriteFile(path, updated); err != nil {
		return "", err
	}
	return okResult, nil
}
