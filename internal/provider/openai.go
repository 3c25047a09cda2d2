package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/petasbytes/nanocode/internal/config"
	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/petasbytes/nanocode/internal/transport"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// OpenAI speaks the OpenAI-compatible chat-completions protocol (OpenRouter
// and friends) over the raw transport.
type OpenAI struct {
	name      string
	endpoint  string
	apiKey    string
	model     string
	thinking  bool
	maxTok    int64
	extraBody map[string]any
	client    *http.Client
	log       zerolog.Logger
}

func NewOpenAI(pc config.ProviderConfig, opts Options) *OpenAI {
	return &OpenAI{
		name:      pc.Name,
		endpoint:  pc.Endpoint,
		apiKey:    opts.APIKey,
		model:     opts.Model,
		thinking:  opts.Thinking,
		maxTok:    opts.maxTokens(),
		extraBody: opts.ExtraBody,
		client:    opts.HTTPClient,
		log:       opts.Logger,
	}
}

func (o *OpenAI) Name() string { return o.name }

type chatRequest struct {
	Model            string        `json:"model"`
	MaxTokens        int64         `json:"max_tokens"`
	Messages         []chatMessage `json:"messages"`
	Tools            []ChatTool    `json:"tools,omitempty"`
	IncludeReasoning bool          `json:"include_reasoning,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is null for an assistant message that only calls tools.
	Content    *string        `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatFunctionCall `json:"function"`
}

type chatFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func (o *OpenAI) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	body, err := o.buildRequest(req)
	if err != nil {
		return nil, err
	}

	o.log.Debug().Str("model", o.model).Int("bytes", len(body)).Msg("chat completions request")
	raw, err := transport.PostJSON(ctx, o.client, o.endpoint, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, body)
	if err != nil {
		var se *transport.StatusError
		if errors.As(err, &se) {
			return nil, &llm.TransportError{Provider: o.name, StatusCode: se.StatusCode, Err: err}
		}
		return nil, ctxErr(ctx, &llm.TransportError{Provider: o.name, Err: err})
	}
	return o.parseResponse(raw)
}

func (o *OpenAI) buildRequest(req llm.Request) ([]byte, error) {
	msgs, err := chatMessages(req.System, req.Messages)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(chatRequest{
		Model:            o.model,
		MaxTokens:        o.maxTok,
		Messages:         msgs,
		Tools:            OpenAITools(req.Tools),
		IncludeReasoning: o.thinking,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	// Extra fields are applied in key order so the body is deterministic.
	keys := make([]string, 0, len(o.extraBody))
	for k := range o.extraBody {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if body, err = sjson.SetBytes(body, k, o.extraBody[k]); err != nil {
			return nil, fmt.Errorf("extra body field %q: %w", k, err)
		}
	}
	return body, nil
}

// chatMessages flattens canonical history into chat messages. Reasoning is
// not replayed on this protocol.
func chatMessages(system string, msgs []llm.Message) ([]chatMessage, error) {
	out := make([]chatMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, chatMessage{Role: "system", Content: strPtr(system)})
	}
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleUser:
			var texts []string
			for _, b := range m.Content {
				switch b.Kind {
				case llm.KindToolResult:
					out = append(out, chatMessage{Role: "tool", ToolCallID: b.ToolUseID, Content: strPtr(b.Content)})
				case llm.KindText:
					texts = append(texts, b.Text)
				}
			}
			if len(texts) > 0 {
				out = append(out, chatMessage{Role: "user", Content: strPtr(strings.Join(texts, " "))})
			}
		case llm.RoleAssistant:
			msg := chatMessage{Role: "assistant"}
			var texts []string
			for _, b := range m.Content {
				switch b.Kind {
				case llm.KindText:
					if b.Text != "" {
						texts = append(texts, b.Text)
					}
				case llm.KindToolUse:
					input := b.Input
					if input == nil {
						input = map[string]any{}
					}
					args, err := json.Marshal(input)
					if err != nil {
						return nil, fmt.Errorf("encode arguments of %s: %w", b.ID, err)
					}
					msg.ToolCalls = append(msg.ToolCalls, chatToolCall{
						ID:       b.ID,
						Type:     "function",
						Function: chatFunctionCall{Name: b.Name, Arguments: string(args)},
					})
				}
			}
			if len(texts) > 0 {
				msg.Content = strPtr(strings.Join(texts, " "))
			}
			if msg.Content == nil && len(msg.ToolCalls) == 0 {
				// Reasoning-only turn: nothing to send.
				continue
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

// parseResponse normalizes the first choice: reasoning, then content, then
// tool calls in the order returned.
func (o *OpenAI) parseResponse(raw []byte) (*llm.Response, error) {
	if !gjson.ValidBytes(raw) {
		return nil, llm.Protocolf(o.name, "response is not valid JSON")
	}
	if e := gjson.GetBytes(raw, "error"); e.Exists() && e.Type != gjson.Null {
		detail := e.Get("message").String()
		if detail == "" {
			detail = e.Raw
		}
		return nil, llm.Protocolf(o.name, "error response: %s", detail)
	}
	msg := gjson.GetBytes(raw, "choices.0.message")
	if !msg.Exists() || !msg.IsObject() {
		return nil, llm.Protocolf(o.name, "response has no choices[0].message")
	}

	var blocks []llm.ContentBlock
	reasoning := msg.Get("reasoning")
	if reasoning.Type != gjson.String {
		reasoning = msg.Get("reasoning_content")
	}
	if r := reasoning.String(); reasoning.Type == gjson.String && r != "" {
		blocks = append(blocks, llm.Thinking(r, ""))
	}
	if text := contentText(msg.Get("content")); text != "" {
		blocks = append(blocks, llm.Text(text))
	}

	for i, tc := range msg.Get("tool_calls").Array() {
		id := tc.Get("id").String()
		name := tc.Get("function.name").String()
		if id == "" || name == "" {
			return nil, llm.Protocolf(o.name, "tool_calls[%d] missing id or function name", i)
		}
		input, err := decodeArguments(tc.Get("function.arguments"))
		if err != nil {
			return nil, llm.Protocolf(o.name, "tool_calls[%d] (%s): %v", i, name, err)
		}
		blocks = append(blocks, llm.ToolUse(id, name, input))
	}
	return llm.NewResponse(blocks), nil
}

// contentText accepts a plain string or an array of {type:"text"} parts.
func contentText(c gjson.Result) string {
	if c.Type == gjson.String {
		return c.String()
	}
	if !c.IsArray() {
		return ""
	}
	var parts []string
	for _, p := range c.Array() {
		if p.Get("type").String() == "text" {
			parts = append(parts, p.Get("text").String())
		}
	}
	return strings.Join(parts, "")
}

// decodeArguments decodes the argument string (some servers send an object).
func decodeArguments(a gjson.Result) (map[string]any, error) {
	input := map[string]any{}
	raw := a.String()
	if a.IsObject() {
		raw = a.Raw
	}
	if strings.TrimSpace(raw) == "" {
		return input, nil
	}
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, nil
}

func strPtr(s string) *string { return &s }
