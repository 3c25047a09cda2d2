// Package llm holds the canonical conversation model shared by the provider
// adapters, the conversation log and the orchestration loop.
//
// Backend wire shapes never leave the adapters: everything downstream sees
// only Message, ContentBlock and Response.
package llm

import "context"

// Provider performs one model call. Implementations must honour ctx
// cancellation and must not retry.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}
