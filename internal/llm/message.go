package llm

import "github.com/petasbytes/nanocode/tools"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockKind tags the variant held by a ContentBlock.
type BlockKind string

const (
	KindThinking   BlockKind = "thinking"
	KindText       BlockKind = "text"
	KindToolUse    BlockKind = "tool_use"
	KindToolResult BlockKind = "tool_result"
)

// ContentBlock is a tagged union. Only the fields belonging to Kind are meaningful.
type ContentBlock struct {
	Kind BlockKind

	// Thinking and Text
	Text string
	// Signature is the opaque token some backends require to replay reasoning.
	// For redacted reasoning it holds the encrypted payload and Text is empty.
	Signature string
	Redacted  bool

	// ToolUse
	ID    string
	Name  string
	Input map[string]any

	// ToolResult
	ToolUseID string
	Content   string
	IsError   bool
}

func Thinking(text, signature string) ContentBlock {
	return ContentBlock{Kind: KindThinking, Text: text, Signature: signature}
}

func Text(text string) ContentBlock {
	return ContentBlock{Kind: KindText, Text: text}
}

func ToolUse(id, name string, input map[string]any) ContentBlock {
	if input == nil {
		input = map[string]any{}
	}
	return ContentBlock{Kind: KindToolUse, ID: id, Name: name, Input: input}
}

func ToolResult(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Kind: KindToolResult, ToolUseID: toolUseID, Content: content, IsError: isError}
}

// Message is one entry of the conversation log.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// UserText builds a plain operator message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{Text(text)}}
}

// ToolUses returns the tool-use blocks of m in order.
func (m Message) ToolUses() []ContentBlock {
	return filterKind(m.Content, KindToolUse)
}

// ToolResults returns the tool-result blocks of m in order.
func (m Message) ToolResults() []ContentBlock {
	return filterKind(m.Content, KindToolResult)
}

type StopReason string

const (
	StopToolUse StopReason = "tool_use"
	StopEndTurn StopReason = "end_turn"
)

// Response is the backend-independent result of one model call.
type Response struct {
	Content    []ContentBlock
	StopReason StopReason
}

func (r *Response) ToolUses() []ContentBlock {
	return filterKind(r.Content, KindToolUse)
}

// NewResponse derives the stop reason from the presence of tool-use blocks.
func NewResponse(blocks []ContentBlock) *Response {
	stop := StopEndTurn
	if len(filterKind(blocks, KindToolUse)) > 0 {
		stop = StopToolUse
	}
	return &Response{Content: blocks, StopReason: stop}
}

// Request is what the orchestration loop hands to a Provider for one call.
type Request struct {
	System   string
	Messages []Message
	Tools    []tools.Spec
}

func filterKind(blocks []ContentBlock, kind BlockKind) []ContentBlock {
	var out []ContentBlock
	for _, b := range blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}
