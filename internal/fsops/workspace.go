// Package fsops performs the file operations behind the file tools, routing
// every path through a safety.Policy.
package fsops

import (
	"github.com/petasbytes/nanocode/internal/safety"
)

// Workspace binds file operations to one resolved root.
type Workspace struct {
	policy safety.Policy
}

// New resolves root once. An unresolvable root falls back to the literal
// path; later operations surface the underlying error.
func New(root string, confine bool) *Workspace {
	p, err := safety.NewPolicy(root, confine)
	if err != nil {
		p = safety.Policy{Root: root, Confine: confine}
	}
	return &Workspace{policy: p}
}

func (w *Workspace) Root() string { return w.policy.Root }

// Resolve maps a tool-supplied path to an absolute path under the read policy.
func (w *Workspace) Resolve(path string) (string, error) {
	return w.policy.Resolve(path)
}

// Display renders abs the way results are shown to the model.
func (w *Workspace) Display(abs string) string {
	return w.policy.Display(abs)
}
