package runner

import (
	"context"
	"errors"
	"strings"

	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/petasbytes/nanocode/internal/metrics"
	"github.com/petasbytes/nanocode/internal/telemetry"
	"github.com/petasbytes/nanocode/memory"
	"github.com/petasbytes/nanocode/tools"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultParallel bounds concurrent tool executions within one response.
const DefaultParallel = 4

// Observer receives the visible events of a turn. Calls are made from the
// goroutine running the turn, in response order.
type Observer interface {
	OnThinking(text string)
	OnText(text string)
	OnToolCall(call llm.ContentBlock)
	OnToolResult(call llm.ContentBlock, result string)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) OnThinking(string)                      {}
func (NopObserver) OnText(string)                          {}
func (NopObserver) OnToolCall(llm.ContentBlock)            {}
func (NopObserver) OnToolResult(llm.ContentBlock, string) {}

type Runner struct {
	Provider llm.Provider
	Tools    *tools.Registry
	Conv     *memory.Conversation

	System string
	// Model is reported in telemetry only; the provider owns model selection.
	Model    string
	Parallel int
	Observer Observer
	Log      zerolog.Logger
}

func New(p llm.Provider, reg *tools.Registry, conv *memory.Conversation) *Runner {
	return &Runner{
		Provider: p,
		Tools:    reg,
		Conv:     conv,
		Parallel: DefaultParallel,
		Observer: NopObserver{},
		Log:      zerolog.Nop(),
	}
}

// Outcome tells the caller what Submit did with a line of input.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeExit
	OutcomeCleared
	OutcomeTurn
)

// Submit interprets one line of operator input: session commands are handled
// here, anything else runs a turn.
func (r *Runner) Submit(ctx context.Context, input string) (Outcome, error) {
	input = strings.TrimSpace(input)
	switch input {
	case "":
		return OutcomeIgnored, nil
	case "/q", "exit":
		return OutcomeExit, nil
	case "/c":
		r.Conv.Clear()
		r.Log.Debug().Msg("conversation cleared")
		return OutcomeCleared, nil
	}
	_, err := r.RunTurn(ctx, input)
	return OutcomeTurn, err
}

// RunTurn appends input and calls the model until it answers without tool
// use. It returns the final response. On error the conversation is returned
// to AwaitingUserInput with whatever history was already appended.
func (r *Runner) RunTurn(ctx context.Context, input string) (final *llm.Response, err error) {
	ctx = telemetry.WithTurnID(ctx, telemetry.NewTurnID())
	telemetry.EmitLocalFeatures(ctx, input)
	stats := metrics.NewTurnStats()
	defer func() {
		telemetry.EmitTurnCompleted(ctx, r.Provider.Name(), r.Model, stats, errClass(err))
	}()

	if err := r.Conv.AppendUser(input); err != nil {
		return nil, err
	}
	specs := r.Tools.Specs()
	for {
		resp, err := r.Provider.Complete(ctx, llm.Request{
			System:   r.System,
			Messages: r.Conv.Snapshot(),
			Tools:    specs,
		})
		if err != nil {
			r.Conv.Abort()
			return nil, err
		}
		stats.Rounds++
		if err := r.Conv.AppendAssistant(resp.Content); err != nil {
			r.Conv.Abort()
			return nil, err
		}
		r.observe(resp, &stats)

		uses := resp.ToolUses()
		if len(uses) == 0 {
			return resp, nil
		}
		results := r.dispatch(ctx, uses, &stats)
		if err := r.Conv.AppendToolResults(results); err != nil {
			r.Conv.Abort()
			return nil, err
		}
		// Cancelled tools still answered above, so the log stays paired.
		if err := ctx.Err(); err != nil {
			r.Conv.Abort()
			return nil, err
		}
	}
}

func (r *Runner) observe(resp *llm.Response, stats *metrics.TurnStats) {
	obs := r.observer()
	for _, b := range resp.Content {
		switch b.Kind {
		case llm.KindThinking:
			stats.Thinking.Add(metrics.CountFeatures(b.Text))
			if b.Text != "" {
				obs.OnThinking(b.Text)
			}
		case llm.KindText:
			stats.Text.Add(metrics.CountFeatures(b.Text))
			if b.Text != "" {
				obs.OnText(b.Text)
			}
		}
	}
}

// dispatch runs uses concurrently and returns one result per use, in order.
func (r *Runner) dispatch(ctx context.Context, uses []llm.ContentBlock, stats *metrics.TurnStats) []llm.ContentBlock {
	obs := r.observer()
	for _, u := range uses {
		obs.OnToolCall(u)
	}

	outputs := make([]string, len(uses))
	var g errgroup.Group
	limit := r.Parallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, u := range uses {
		g.Go(func() error {
			outputs[i] = r.Tools.Dispatch(ctx, u.Name, tools.Args(u.Input))
			return nil
		})
	}
	_ = g.Wait()

	results := make([]llm.ContentBlock, len(uses))
	for i, u := range uses {
		failed := tools.IsErrorResult(outputs[i])
		stats.ObserveTool(failed)
		obs.OnToolResult(u, outputs[i])
		results[i] = llm.ToolResult(u.ID, outputs[i], failed)
	}
	return results
}

func (r *Runner) observer() Observer {
	if r.Observer == nil {
		return NopObserver{}
	}
	return r.Observer
}

// errClass labels a turn failure for telemetry without leaking its message.
func errClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, llm.ErrProtocol):
		return "protocol"
	case errors.Is(err, llm.ErrTransport):
		return "transport"
	}
	return "error"
}
