package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/petasbytes/nanocode/internal/telemetry"
	"github.com/rs/zerolog"
)

// ErrorPrefix marks a tool result that reports a failure.
const ErrorPrefix = "error: "

// IsErrorResult reports whether a Dispatch result is a failure.
func IsErrorResult(s string) bool {
	return strings.HasPrefix(s, ErrorPrefix)
}

// WithLogger sets the logger used by Dispatch.
func (r *Registry) WithLogger(l zerolog.Logger) *Registry {
	r.log = l
	return r
}

// Dispatch runs the named tool and always returns text. Unknown tools,
// handler errors and panics all become "error: <message>" results.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (result string) {
	start := time.Now()
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	inSize := 0
	if b, err := json.Marshal(args); err == nil {
		inSize = len(b)
	}

	// errClass is a coarse label; raw payloads never reach telemetry.
	errClass := ""
	defer func() {
		if p := recover(); p != nil {
			errClass = "panic"
			result = ErrorPrefix + fmt.Sprint(p)
		}
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  inSize,
			"output_size": len(result),
			"turn_id":     turnID,
			"error":       nil,
		}
		if errClass != "" {
			fields["error"] = errClass
		}
		telemetry.Emit("tool_exec", fields)
		r.log.Debug().
			Str("tool", name).
			Dur("took", time.Since(start)).
			Str("error", errClass).
			Msg("tool executed")
	}()

	t, ok := r.byName[name]
	if !ok {
		errClass = "tool not found"
		return ErrorPrefix + "unknown tool " + name
	}
	// Queued calls of a cancelled turn still get a result but never run.
	if err := ctx.Err(); err != nil {
		errClass = "canceled"
		return ErrorPrefix + err.Error()
	}
	if args == nil {
		args = Args{}
	}
	out, err := t.Execute(ctx, args)
	if err != nil {
		errClass = "tool error"
		return ErrorPrefix + err.Error()
	}
	return out
}
