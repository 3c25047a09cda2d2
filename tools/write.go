package tools

import (
	"context"

	"github.com/petasbytes/nanocode/internal/fsops"
)

const okResult = "ok"

// WriteTool overwrites a file with the given content.
type WriteTool struct {
	ws *fsops.Workspace
}

func (t *WriteTool) Spec() Spec {
	return Spec{
		Name:        "write",
		Description: "Write content to file",
		Params: []Param{
			{Name: "path", Type: TypeString, Description: "Target file path; parent directories are created."},
			{Name: "content", Type: TypeString, Description: "Full new file content."},
		},
	}
}

func (t *WriteTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.RequireString("path")
	if err != nil {
		return "", err
	}
	content, err := args.RequireString("content")
	if err != nil {
		return "", err
	}
	if err := t.ws.WriteFile(path, content); err != nil {
		return "", err
	}
	return okResult, nil
}
