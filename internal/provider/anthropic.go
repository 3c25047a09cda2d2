package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/nanocode/internal/config"
	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/rs/zerolog"
)

const interleavedThinkingBeta = "interleaved-thinking-2025-05-14"

// Anthropic speaks the native Messages API through the official SDK.
type Anthropic struct {
	name     string
	client   anthropic.Client
	model    anthropic.Model
	thinking bool
	maxTok   int64
	log      zerolog.Logger
}

func NewAnthropic(pc config.ProviderConfig, opts Options) *Anthropic {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(strings.TrimSuffix(pc.Endpoint, "v1/messages")),
		// A failed call fails the turn; the operator decides whether to retry.
		option.WithMaxRetries(0),
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Thinking {
		reqOpts = append(reqOpts, option.WithHeader("anthropic-beta", interleavedThinkingBeta))
	}
	return &Anthropic{
		name:     pc.Name,
		client:   anthropic.NewClient(reqOpts...),
		model:    anthropic.Model(opts.Model),
		thinking: opts.Thinking,
		maxTok:   opts.maxTokens(),
		log:      opts.Logger,
	}
}

func (a *Anthropic) Name() string { return a.name }

func (a *Anthropic) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTok,
		Messages:  anthropicMessages(req.Messages),
		Tools:     AnthropicTools(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if a.thinking {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(thinkingBudget)
	}

	a.log.Debug().Str("model", string(a.model)).Int("messages", len(params.Messages)).Msg("anthropic request")
	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &llm.TransportError{Provider: a.name, StatusCode: apiErr.StatusCode, Err: err}
		}
		return nil, ctxErr(ctx, &llm.TransportError{Provider: a.name, Err: err})
	}
	return a.normalize(msg)
}

// anthropicMessages maps canonical history onto SDK params. Thinking blocks
// without a signature cannot be replayed and are dropped.
func anthropicMessages(msgs []llm.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, b := range m.Content {
			switch b.Kind {
			case llm.KindThinking:
				switch {
				case b.Redacted:
					blocks = append(blocks, anthropic.NewRedactedThinkingBlock(b.Signature))
				case b.Signature != "":
					blocks = append(blocks, anthropic.NewThinkingBlock(b.Signature, b.Text))
				}
			case llm.KindText:
				if b.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(b.Text))
				}
			case llm.KindToolUse:
				input := b.Input
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(b.ID, input, b.Name))
			case llm.KindToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
			}
		}
		if len(blocks) == 0 {
			// The API rejects empty content; a thinking-only turn replays as nothing.
			continue
		}
		if m.Role == llm.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func (a *Anthropic) normalize(msg *anthropic.Message) (*llm.Response, error) {
	blocks := make([]llm.ContentBlock, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.ThinkingBlock:
			blocks = append(blocks, llm.Thinking(v.Thinking, v.Signature))
		case anthropic.TextBlock:
			blocks = append(blocks, llm.Text(v.Text))
		case anthropic.ToolUseBlock:
			input := map[string]any{}
			if raw := v.JSON.Input.Raw(); raw != "" && raw != "null" {
				if err := json.Unmarshal([]byte(raw), &input); err != nil {
					return nil, llm.Protocolf(a.name, "tool_use %s: input is not an object: %v", v.ID, err)
				}
			}
			if v.ID == "" || v.Name == "" {
				return nil, llm.Protocolf(a.name, "tool_use block without id or name")
			}
			blocks = append(blocks, llm.ToolUse(v.ID, v.Name, input))
		case anthropic.RedactedThinkingBlock:
			// Opaque, but must be replayed alongside the tool results.
			blocks = append(blocks, llm.ContentBlock{Kind: llm.KindThinking, Signature: v.Data, Redacted: true})
		default:
			a.log.Debug().Str("type", block.Type).Msg("ignoring content block")
		}
	}
	return llm.NewResponse(blocks), nil
}
