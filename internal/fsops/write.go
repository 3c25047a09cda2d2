package fsops

import (
	"os"
	"path/filepath"
)

// WriteFile replaces (or creates) the file at path, creating parent
// directories as needed. Existing permissions are kept.
func (w *Workspace) WriteFile(path, content string) error {
	absPath, err := w.policy.ResolveWrite(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(absPath); err == nil {
		mode = fi.Mode().Perm()
	}
	return os.WriteFile(absPath, []byte(content), mode)
}
