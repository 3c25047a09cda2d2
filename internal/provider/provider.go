// Package provider adapts model backends to llm.Provider.
//
// Each adapter serializes the canonical history and tool specs into its
// backend's request, performs one call, and normalizes the reply into an
// llm.Response. Backend field names never escape this package.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/petasbytes/nanocode/internal/config"
	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/rs/zerolog"
)

const (
	maxTokensThinking = 16000
	maxTokensPlain    = 8192
	thinkingBudget    = 10000
)

// Options is adapter-local configuration.
type Options struct {
	Model    string
	Thinking bool
	APIKey   string
	// HTTPClient carries the transport; nil means a plain http.Client.
	HTTPClient *http.Client
	// ExtraBody holds extra top-level request fields (OpenAI-compatible only).
	ExtraBody map[string]any
	Logger    zerolog.Logger
}

func (o Options) maxTokens() int64 {
	if o.Thinking {
		return maxTokensThinking
	}
	return maxTokensPlain
}

// New builds the adapter for pc.
func New(pc config.ProviderConfig, opts Options) (llm.Provider, error) {
	if opts.Model == "" {
		opts.Model = pc.DefaultModel
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	switch pc.Kind {
	case config.KindAnthropic:
		return NewAnthropic(pc, opts), nil
	case config.KindOpenAI:
		return NewOpenAI(pc, opts), nil
	}
	return nil, fmt.Errorf("%w kind %q", config.ErrUnknownProvider, pc.Kind)
}

// ctxErr prefers the context's own error so callers can tell a cancelled
// turn from a failed one.
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
