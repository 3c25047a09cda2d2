package fsops

import (
	"os"

	"github.com/petasbytes/nanocode/internal/safety"
)

// ReadFile returns the contents of a regular file. Directories yield an
// ERR_NOT_A_FILE ToolError; other I/O failures are returned as is.
func (w *Workspace) ReadFile(path string) (string, error) {
	absPath, err := w.policy.Resolve(path)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: safety.ErrCodeNotAFile, Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Dir resolves path and checks that it names a directory.
func (w *Workspace) Dir(path string) (string, error) {
	absPath, err := w.policy.Resolve(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", safety.ToolError{Code: safety.ErrCodeNotADir, Message: "path is not a directory"}
	}
	return absPath, nil
}
