package memory

import (
	"github.com/petasbytes/nanocode/internal/llm"
)

// toolUseIDs returns the tool-use ids of an assistant message in order.
// Empty or repeated ids cannot be answered unambiguously and are rejected.
func toolUseIDs(m llm.Message) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, b := range m.ToolUses() {
		if b.ID == "" {
			return nil, llm.Protocolf("", "tool use %q without id", b.Name)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, llm.Protocolf("", "duplicate tool use id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		ids = append(ids, b.ID)
	}
	return ids, nil
}

// checkPairing validates a tool-result message against the pending ids:
// only tool-result blocks, every id answered, no extras, no repeats.
func checkPairing(pending []string, m llm.Message) error {
	want := make(map[string]struct{}, len(pending))
	for _, id := range pending {
		want[id] = struct{}{}
	}
	have := make(map[string]struct{}, len(m.Content))
	for _, b := range m.Content {
		if b.Kind != llm.KindToolResult {
			return llm.Protocolf("", "non tool-result block %q in tool-result message", b.Kind)
		}
		if _, dup := have[b.ToolUseID]; dup {
			return llm.Protocolf("", "duplicate result for tool use %q", b.ToolUseID)
		}
		have[b.ToolUseID] = struct{}{}
	}
	if !coversAll(have, want) {
		return llm.Protocolf("", "missing tool results: have %d of %d", len(have), len(want))
	}
	if !noExtraResults(have, want) {
		return llm.Protocolf("", "orphaned tool result")
	}
	return nil
}

// coversAll checks that every id in required is present in have.
func coversAll(have, required map[string]struct{}) bool {
	for id := range required {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// noExtraResults checks that have holds no id outside allowed.
func noExtraResults(have, allowed map[string]struct{}) bool {
	for id := range have {
		if _, ok := allowed[id]; !ok {
			return false
		}
	}
	return true
}
