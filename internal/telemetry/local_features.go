package telemetry

import (
	"context"

	"github.com/petasbytes/nanocode/internal/metrics"
)

// EmitLocalFeatures records size features of the operator input for the turn.
func EmitLocalFeatures(ctx context.Context, input string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(input)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "2",
		"user":             f.Fields(),
	})
}

// EmitTurnCompleted records the shape of a finished turn. errClass is empty
// for a successful turn.
func EmitTurnCompleted(ctx context.Context, provider, model string, stats metrics.TurnStats, errClass string) {
	turnID, _ := TurnIDFromContext(ctx)
	fields := stats.Fields()
	fields["turn_id"] = turnID
	fields["provider"] = provider
	fields["model"] = model
	fields["error"] = nil
	if errClass != "" {
		fields["error"] = errClass
	}
	Emit("turn_completed", fields)
}
