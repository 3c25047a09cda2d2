// Package safety resolves tool-supplied paths against the workspace root.
//
// By default any path is allowed, relative paths being anchored at the root.
// A confined Policy additionally rejects anything that resolves outside the
// root (including symlink escapes) and denies writes under .git/ and the
// artifacts directory.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a failure with a machine-readable code, surfaced to the model
// as a regular tool result.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ToolError) Error() string {
	return e.Code + ": " + e.Message
}

const (
	ErrCodeOutside     = "ERR_PATH_OUTSIDE_WORKSPACE"
	ErrCodeDeniedWrite = "ERR_DENIED_WRITE"
	ErrCodeNotAFile    = "ERR_NOT_A_FILE"
	ErrCodeNotADir     = "ERR_NOT_A_DIRECTORY"
)

// ArtifactsDirName is the workspace-local directory telemetry writes into.
const ArtifactsDirName = ".nanocode"

// Policy anchors path resolution.
type Policy struct {
	Root    string
	Confine bool
}

// NewPolicy resolves root to an absolute, symlink-free path. An empty root
// means the current working directory.
func NewPolicy(root string, confine bool) (Policy, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Policy{}, fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Policy{}, fmt.Errorf("abs(root): %w", err)
	}
	// Fall back to the absolute path when the root does not exist yet.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return Policy{Root: abs, Confine: confine}, nil
}

// Resolve returns the absolute path for p.
func (p Policy) Resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}
	candidate := filepath.Clean(path)
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(p.Root, candidate)
	}
	if !p.Confine {
		return candidate, nil
	}

	// Resolve the candidate, or its parent when the leaf does not exist yet,
	// so a symlinked ancestor cannot smuggle the path out of the root.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err2 := filepath.EvalSymlinks(filepath.Dir(candidate)); err2 == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	if _, ok := p.relInside(candidate); !ok {
		return "", ToolError{Code: ErrCodeOutside, Message: "path resolves outside the workspace root"}
	}
	return candidate, nil
}

// ResolveWrite is Resolve plus the write denylist for confined policies.
func (p Policy) ResolveWrite(path string) (string, error) {
	abs, err := p.Resolve(path)
	if err != nil {
		return "", err
	}
	if !p.Confine {
		return abs, nil
	}
	rel, _ := p.relInside(abs)
	rel = filepath.ToSlash(rel)
	for _, dir := range []string{".git", ArtifactsDirName} {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return "", ToolError{Code: ErrCodeDeniedWrite, Message: "writes under " + dir + "/ are not allowed"}
		}
	}
	return abs, nil
}

// Display renders abs relative to the root when it lies inside it.
func (p Policy) Display(abs string) string {
	if rel, ok := p.relInside(abs); ok {
		return rel
	}
	return abs
}

func (p Policy) relInside(abs string) (string, bool) {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}
