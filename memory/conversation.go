package memory

import (
	"fmt"
	"sync"

	"github.com/petasbytes/nanocode/internal/llm"
)

// State is the position of the conversation in the turn cycle.
type State int

const (
	AwaitingUserInput State = iota
	TurnInProgress
	ToolsPending
)

func (s State) String() string {
	switch s {
	case AwaitingUserInput:
		return "awaiting_user_input"
	case TurnInProgress:
		return "turn_in_progress"
	case ToolsPending:
		return "tools_pending"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Conversation is the append-only message log of one session.
type Conversation struct {
	mu    sync.RWMutex
	msgs  []llm.Message
	state State
	// pending holds the tool-use ids awaiting results, in response order.
	pending []string
}

func New() *Conversation {
	return &Conversation{}
}

// AppendUser starts a turn with operator text. It is only valid while
// awaiting input.
func (c *Conversation) AppendUser(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AwaitingUserInput {
		return llm.Protocolf("", "user input while %s", c.state)
	}
	c.msgs = append(c.msgs, llm.UserText(text))
	c.state = TurnInProgress
	return nil
}

// AppendAssistant records a model response unfiltered. Tool-use blocks move
// the conversation to ToolsPending; otherwise the turn is complete.
func (c *Conversation) AppendAssistant(blocks []llm.ContentBlock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != TurnInProgress {
		return llm.Protocolf("", "assistant response while %s", c.state)
	}
	m := llm.Message{Role: llm.RoleAssistant, Content: cloneBlocks(blocks)}
	ids, err := toolUseIDs(m)
	if err != nil {
		return err
	}
	c.msgs = append(c.msgs, m)
	if len(ids) == 0 {
		c.state = AwaitingUserInput
		return nil
	}
	c.pending = ids
	c.state = ToolsPending
	return nil
}

// AppendToolResults answers the pending tool uses. The results must cover
// every pending id exactly once and nothing else.
func (c *Conversation) AppendToolResults(results []llm.ContentBlock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ToolsPending {
		return llm.Protocolf("", "tool results without pending tool use")
	}
	m := llm.Message{Role: llm.RoleUser, Content: cloneBlocks(results)}
	if err := checkPairing(c.pending, m); err != nil {
		return err
	}
	c.msgs = append(c.msgs, m)
	c.pending = nil
	c.state = TurnInProgress
	return nil
}

// Abort ends a failed or cancelled turn. History is kept as appended; a turn
// left with unanswered tool uses stays unanswered, so callers abort only
// before a response is appended or after its results are.
func (c *Conversation) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AwaitingUserInput
	c.pending = nil
}

// Clear empties the log from any state.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
	c.pending = nil
	c.state = AwaitingUserInput
}

// Snapshot returns a copy of the log safe to hand to a provider.
func (c *Conversation) Snapshot() []llm.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]llm.Message, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = llm.Message{Role: m.Role, Content: cloneBlocks(m.Content)}
	}
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.msgs)
}

func (c *Conversation) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Pending returns the tool-use ids awaiting results, in response order.
func (c *Conversation) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.pending...)
}

// cloneBlocks copies the slice; Input maps are shared since nothing mutates them.
func cloneBlocks(blocks []llm.ContentBlock) []llm.ContentBlock {
	return append([]llm.ContentBlock(nil), blocks...)
}
