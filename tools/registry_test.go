package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/petasbytes/nanocode/tools"
)

type stubTool struct {
	name string
	run  func(context.Context, tools.Args) (string, error)
}

func (s stubTool) Spec() tools.Spec { return tools.Spec{Name: s.name, Description: "stub"} }

func (s stubTool) Execute(ctx context.Context, a tools.Args) (string, error) {
	return s.run(ctx, a)
}

func TestRegistry_ToolNames(t *testing.T) {
	want := []string{"read", "write", "edit", "glob", "grep", "bash", "web_search", "read_page"}
	got := builtins.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("tool names = %v, want %v", got, want)
	}
	for i, s := range builtins.Specs() {
		if s.Name != want[i] || s.Description == "" {
			t.Errorf("spec %d = %+v", i, s)
		}
	}
}

func TestRegistry_RejectsDuplicateAndEmptyNames(t *testing.T) {
	ok := func(context.Context, tools.Args) (string, error) { return "", nil }
	if _, err := tools.NewRegistry(stubTool{"a", ok}, stubTool{"a", ok}); err == nil {
		t.Fatal("expected duplicate name error")
	}
	if _, err := tools.NewRegistry(stubTool{"", ok}); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestDispatch_ErrorIsolation(t *testing.T) {
	reg, err := tools.NewRegistry(
		stubTool{"fails", func(context.Context, tools.Args) (string, error) { return "", errors.New("bad input") }},
		stubTool{"panics", func(context.Context, tools.Args) (string, error) { panic("kaboom") }},
		stubTool{"fine", func(_ context.Context, a tools.Args) (string, error) { return "got " + a.String("x"), nil }},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	ctx := context.Background()

	cases := map[string]string{
		"fails":   "error: bad input",
		"panics":  "error: kaboom",
		"missing": "error: unknown tool missing",
	}
	for name, want := range cases {
		if got := reg.Dispatch(ctx, name, nil); got != want {
			t.Errorf("Dispatch(%s) = %q, want %q", name, got, want)
		}
		if !tools.IsErrorResult(reg.Dispatch(ctx, name, nil)) {
			t.Errorf("Dispatch(%s) not classified as error", name)
		}
	}
	if got := reg.Dispatch(ctx, "fine", tools.Args{"x": "y"}); got != "got y" {
		t.Errorf("Dispatch(fine) = %q", got)
	}
}

func TestDispatch_CancelledContextSkipsTool(t *testing.T) {
	ran := false
	reg, err := tools.NewRegistry(stubTool{"touch", func(context.Context, tools.Args) (string, error) {
		ran = true
		return "ok", nil
	}})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := reg.Dispatch(ctx, "touch", nil)
	if ran {
		t.Fatal("tool ran with a cancelled context")
	}
	if got != "error: context canceled" {
		t.Fatalf("Dispatch = %q", got)
	}
}

func TestArgs_Accessors(t *testing.T) {
	a := tools.Args{"s": "text", "f": float64(7), "n": "12", "b": true, "bs": "true", "x": 3.5}
	if a.String("s") != "text" || a.String("missing") != "" || a.String("f") != "7" {
		t.Errorf("String accessors wrong")
	}
	if a.Int("f", 0) != 7 || a.Int("n", 0) != 12 || a.Int("missing", 9) != 9 || a.Int("s", 4) != 4 {
		t.Errorf("Int accessors wrong")
	}
	if !a.Bool("b") || !a.Bool("bs") || a.Bool("s") || a.Bool("missing") {
		t.Errorf("Bool accessors wrong")
	}
	if _, err := a.RequireString("missing"); err == nil {
		t.Errorf("RequireString should fail for a missing argument")
	}
}

func TestInputSchema_RequiredAndOrder(t *testing.T) {
	spec := tools.Spec{Name: "read", Params: []tools.Param{
		{Name: "path", Type: tools.TypeString, Description: "file"},
		{Name: "offset", Type: tools.TypeNumber, Optional: true},
		{Name: "all", Type: tools.TypeBoolean, Optional: true},
	}}
	b, err := json.Marshal(tools.InputSchema(spec))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	s := string(b)

	var got struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if got.Type != "object" {
		t.Errorf("type = %q", got.Type)
	}
	if got.Properties["path"].Type != "string" || got.Properties["offset"].Type != "integer" || got.Properties["all"].Type != "boolean" {
		t.Errorf("property types wrong: %s", s)
	}
	if len(got.Required) != 1 || got.Required[0] != "path" {
		t.Errorf("required = %v", got.Required)
	}
	if !(strings.Index(s, `"path"`) < strings.Index(s, `"offset"`) && strings.Index(s, `"offset"`) < strings.Index(s, `"all"`)) {
		t.Errorf("properties lost declaration order: %s", s)
	}
}

func TestInputSchema_NoParams(t *testing.T) {
	b, err := json.Marshal(tools.InputSchema(tools.Spec{Name: "noop"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["type"] != "object" {
		t.Errorf("schema = %s", b)
	}
	if req, ok := got["required"].([]any); ok && len(req) != 0 {
		t.Errorf("required should be empty: %s", b)
	}
}
