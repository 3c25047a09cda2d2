package metrics

import "time"

// TurnStats summarizes one operator turn: how many model calls it took, how
// many tools ran and how much text came back.
type TurnStats struct {
	Started    time.Time
	Rounds     int
	ToolCalls  int
	ToolErrors int
	Thinking   Features
	Text       Features
}

func NewTurnStats() TurnStats {
	return TurnStats{Started: time.Now()}
}

// ObserveTool counts one tool execution.
func (s *TurnStats) ObserveTool(failed bool) {
	s.ToolCalls++
	if failed {
		s.ToolErrors++
	}
}

// Fields renders s for a telemetry event. Each call returns a fresh map.
func (s TurnStats) Fields() map[string]any {
	return map[string]any{
		"duration_ms": time.Since(s.Started).Milliseconds(),
		"rounds":      s.Rounds,
		"tool_calls":  s.ToolCalls,
		"tool_errors": s.ToolErrors,
		"thinking":    s.Thinking.Fields(),
		"text":        s.Text.Fields(),
	}
}
