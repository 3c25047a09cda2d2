package tools

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/petasbytes/nanocode/internal/fsops"
)

const noneResult = "none"

// GlobTool lists paths matching a pattern, newest first.
type GlobTool struct {
	ws *fsops.Workspace
}

func (t *GlobTool) Spec() Spec {
	return Spec{
		Name:        "glob",
		Description: "Find files by pattern, sorted by mtime",
		Params: []Param{
			{Name: "pat", Type: TypeString, Description: "Glob pattern; ** matches any number of directories."},
			{Name: "path", Type: TypeString, Optional: true, Description: "Base directory (default: working directory)."},
		},
	}
}

func (t *GlobTool) Execute(ctx context.Context, args Args) (string, error) {
	pat, err := args.RequireString("pat")
	if err != nil {
		return "", err
	}
	base := args.String("path")
	if base == "" {
		base = "."
	}
	absBase, err := t.ws.Resolve(base)
	if err != nil {
		return "", err
	}

	matches, err := globUnder(absBase, pat)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return noneResult, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Directories sort as if never modified.
	mtimes := make(map[string]int64, len(matches))
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			mtimes[m] = fi.ModTime().UnixNano()
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return mtimes[matches[i]] > mtimes[matches[j]]
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = t.ws.Display(m)
	}
	return strings.Join(out, "\n"), nil
}

// globUnder matches pat relative to base. base is never parsed as a pattern,
// so directory names with glob metacharacters are safe. Leading ".." elements
// move base up; absolute patterns are matched as given.
func globUnder(base, pat string) ([]string, error) {
	if filepath.IsAbs(pat) {
		return doublestar.FilepathGlob(pat)
	}
	pat = filepath.Clean(pat)
	up := ".." + string(filepath.Separator)
	for pat == ".." || strings.HasPrefix(pat, up) {
		base = filepath.Dir(base)
		pat = strings.TrimPrefix(strings.TrimPrefix(pat, ".."), string(filepath.Separator))
		if pat == "" {
			pat = "."
		}
	}
	rels, err := doublestar.Glob(os.DirFS(base), filepath.ToSlash(pat))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rels))
	for i, m := range rels {
		out[i] = filepath.Join(base, filepath.FromSlash(m))
	}
	return out, nil
}
