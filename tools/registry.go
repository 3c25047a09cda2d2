package tools

import (
	"fmt"
	"time"

	"github.com/petasbytes/nanocode/internal/fsops"
	"github.com/rs/zerolog"
)

// Registry is the closed set of tools available for a session.
type Registry struct {
	byName map[string]Tool
	order  []string
	log    zerolog.Logger
}

// NewRegistry registers ts in order. Names must be non-empty and unique.
func NewRegistry(ts ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(ts)), log: zerolog.Nop()}
	for _, t := range ts {
		name := t.Spec().Name
		if name == "" {
			return nil, fmt.Errorf("tools: empty tool name")
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool %q", name)
		}
		r.byName[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Specs returns the tool specs in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.byName[n].Spec())
	}
	return out
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Options configures the built-in tools.
type Options struct {
	// Root resolves relative paths; empty means the working directory.
	Root string
	// Confine rejects paths that resolve outside Root.
	Confine bool

	BashTimeout time.Duration
	HTTPTimeout time.Duration
	// SearchURL is the HTML search endpoint used by web_search.
	SearchURL string
}

// Default returns the built-in tool set.
func Default(opts Options) (*Registry, error) {
	ws := fsops.New(opts.Root, opts.Confine)
	web := newWebClient(opts.HTTPTimeout)
	return NewRegistry(
		&ReadTool{ws: ws},
		&WriteTool{ws: ws},
		&EditTool{ws: ws},
		&GlobTool{ws: ws},
		&GrepTool{ws: ws},
		&BashTool{Dir: ws.Root(), Timeout: opts.BashTimeout},
		&WebSearchTool{client: web, Endpoint: opts.SearchURL},
		&ReadPageTool{client: web},
	)
}
