package telemetry_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/nanocode/internal/metrics"
	"github.com/petasbytes/nanocode/internal/telemetry"
)

// observe points the artifacts dir at a fresh temp dir and enables events.
func observe(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv(telemetry.EnvArtifactsDir, base)
	t.Setenv(telemetry.EnvObserveJSON, "1")
	return base
}

func readLines(t *testing.T, base string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(base, "events.jsonl"))
	if err != nil {
		t.Fatalf("open events: %v", err)
	}
	defer f.Close()
	var out []map[string]any
	s := bufio.NewScanner(f)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(s.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", s.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmit_Gating(t *testing.T) {
	base := t.TempDir()
	t.Setenv(telemetry.EnvArtifactsDir, base)
	t.Setenv(telemetry.EnvObserveJSON, "0")

	telemetry.Emit("test_event", map[string]any{"foo": "bar"})

	if _, err := os.Stat(filepath.Join(base, "events.jsonl")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no events file when observe=0, got err=%v", err)
	}
}

func TestEmit_HappyPath(t *testing.T) {
	base := observe(t)

	telemetry.Emit("test_event", map[string]any{"foo": "bar", "num": 42})

	lines := readLines(t, base)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	event := lines[0]
	if event["event"] != "test_event" || event["foo"] != "bar" || event["num"] != float64(42) {
		t.Fatalf("unexpected event: %#v", event)
	}
	ts, ok := event["time"].(string)
	if !ok {
		t.Fatal("expected time field as string")
	}
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Errorf("time field not valid RFC3339Nano: %v", err)
	}
}

func TestEmit_MultipleEmissionsInOrder(t *testing.T) {
	base := observe(t)

	for _, name := range []string{"event1", "event2", "event3"} {
		telemetry.Emit(name, nil)
	}

	lines := readLines(t, base)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"event1", "event2", "event3"} {
		if lines[i]["event"] != want {
			t.Errorf("line %d: want %s, got %v", i+1, want, lines[i]["event"])
		}
	}
}

func TestEmit_MapIsolation(t *testing.T) {
	observe(t)

	fields := map[string]any{"key": "value"}
	telemetry.Emit("test", fields)

	if len(fields) != 1 || fields["key"] != "value" {
		t.Fatalf("caller map mutated: %#v", fields)
	}
}

func TestEmit_MarshalError_NoFile(t *testing.T) {
	base := observe(t)

	// NaN cannot be encoded by encoding/json.
	telemetry.Emit("bad", map[string]any{"x": math.NaN()})

	if _, err := os.Stat(filepath.Join(base, "events.jsonl")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no events file on marshal error, got err=%v", err)
	}
}

func TestEmit_NilFields(t *testing.T) {
	base := observe(t)

	telemetry.Emit("nil_fields", nil)

	lines := readLines(t, base)
	if len(lines) != 1 || len(lines[0]) != 2 {
		t.Fatalf("expected exactly event+time, got %#v", lines)
	}
}

func TestEmitLocalFeatures_NoRawText(t *testing.T) {
	base := observe(t)
	ctx := telemetry.WithTurnID(context.Background(), "turn-xyz")
	input := "héllö 世界\nsecond line"

	telemetry.EmitLocalFeatures(ctx, input)

	raw, err := os.ReadFile(filepath.Join(base, "events.jsonl"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(raw), "second line") {
		t.Fatalf("raw input leaked into events: %s", raw)
	}
	m := readLines(t, base)[0]
	if m["event"] != "local_features" || m["turn_id"] != "turn-xyz" {
		t.Fatalf("unexpected event: %#v", m)
	}
	want := metrics.CountFeatures(input)
	user := m["user"].(map[string]any)
	if user["bytes"] != float64(want.Bytes) || user["runes"] != float64(want.Runes) ||
		user["words"] != float64(want.Words) || user["lines"] != float64(want.Lines) {
		t.Fatalf("features mismatch: got %#v want %+v", user, want)
	}
}

func TestEmitTurnCompleted(t *testing.T) {
	base := observe(t)
	ctx := telemetry.WithTurnID(context.Background(), "turn-1")
	stats := metrics.NewTurnStats()
	stats.Rounds = 2
	stats.ObserveTool(false)
	stats.ObserveTool(true)

	telemetry.EmitTurnCompleted(ctx, "anthropic", "m", stats, "")
	telemetry.EmitTurnCompleted(ctx, "anthropic", "m", stats, "canceled")

	lines := readLines(t, base)
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	ok := lines[0]
	if ok["event"] != "turn_completed" || ok["rounds"] != float64(2) || ok["tool_calls"] != float64(2) ||
		ok["tool_errors"] != float64(1) || ok["error"] != nil || ok["provider"] != "anthropic" {
		t.Fatalf("unexpected event: %#v", ok)
	}
	if lines[1]["error"] != "canceled" {
		t.Fatalf("expected error class, got %#v", lines[1]["error"])
	}
}

func TestConfigure_EnvWins(t *testing.T) {
	t.Setenv(telemetry.EnvPersistPayloads, "0")
	telemetry.Configure(false, true, "")
	if telemetry.PersistPayloadsEnabled() {
		t.Fatal("explicit env 0 should override configured true")
	}
}

func TestSessionArtifactsDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	elsewhere := filepath.Join(t.TempDir(), "nc")
	cases := []struct{ dir, want string }{
		{"", filepath.Join(root, telemetry.DefaultArtifactsDir)},
		{"out/events", filepath.Join(root, "out", "events")},
		{elsewhere, elsewhere},
	}
	for _, c := range cases {
		if got := telemetry.SessionArtifactsDir(root, c.dir); got != c.want {
			t.Errorf("SessionArtifactsDir(%q) = %q, want %q", c.dir, got, c.want)
		}
	}

	t.Setenv(telemetry.EnvArtifactsDir, "")
	t.Cleanup(func() { telemetry.Configure(false, false, telemetry.DefaultArtifactsDir) })
	telemetry.Configure(false, false, telemetry.SessionArtifactsDir(root, ""))
	if got := telemetry.ArtifactsDir(); got != filepath.Join(root, ".nanocode") {
		t.Fatalf("ArtifactsDir = %q, want it under the session root", got)
	}
}
