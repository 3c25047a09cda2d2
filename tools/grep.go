package tools

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/petasbytes/nanocode/internal/fsops"
)

const maxGrepHits = 50

var errEnoughHits = errors.New("enough hits")

// GrepTool searches regular files under a directory for a regular expression.
type GrepTool struct {
	ws *fsops.Workspace
}

func (t *GrepTool) Spec() Spec {
	return Spec{
		Name:        "grep",
		Description: "Search files for regex pattern",
		Params: []Param{
			{Name: "pat", Type: TypeString, Description: "RE2 regular expression."},
			{Name: "path", Type: TypeString, Optional: true, Description: "File or directory to search (default: working directory)."},
		},
	}
}

// Execute returns at most 50 path:line:text hits in walk order. Hidden
// entries are not descended into; unreadable and binary files are skipped.
func (t *GrepTool) Execute(ctx context.Context, args Args) (string, error) {
	pat, err := args.RequireString("pat")
	if err != nil {
		return "", err
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}
	base := args.String("path")
	if base == "" {
		base = "."
	}
	absBase, err := t.ws.Resolve(base)
	if err != nil {
		return "", err
	}

	var hits []string
	walkErr := filepath.WalkDir(absBase, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped like unreadable files.
			if d != nil && d.IsDir() && p != absBase {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != absBase && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && !linksToFile(p, d) {
			return nil
		}
		hits = grepFile(p, t.ws.Display(p), re, hits)
		if len(hits) >= maxGrepHits {
			return errEnoughHits
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errEnoughHits) {
		return "", walkErr
	}
	if len(hits) == 0 {
		return noneResult, nil
	}
	return strings.Join(hits, "\n"), nil
}

func grepFile(path, display string, re *regexp.Regexp, hits []string) []string {
	f, err := os.Open(path)
	if err != nil {
		return hits
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if head, _ := r.Peek(8000); bytes.IndexByte(head, 0) >= 0 {
		return hits
	}
	for n := 1; len(hits) < maxGrepHits; n++ {
		line, err := r.ReadString('\n')
		if line != "" && re.MatchString(line) {
			hits = append(hits, fmt.Sprintf("%s:%d:%s", display, n, strings.TrimRight(line, " \t\r\n")))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return hits
			}
			break
		}
	}
	return hits
}

// linksToFile reports whether d is a symlink to a regular file.
func linksToFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
