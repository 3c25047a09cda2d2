package tools

import (
	"context"
	"fmt"
	"math"
)

// ParamType is the three-way type tag advertised to the model.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

type Param struct {
	Name        string
	Type        ParamType
	Optional    bool
	Description string
}

// Spec describes a tool to the model. It is immutable once registered.
type Spec struct {
	Name        string
	Description string
	Params      []Param
}

// Tool is a single capability the model may invoke.
type Tool interface {
	Spec() Spec
	Execute(ctx context.Context, args Args) (string, error)
}

// Args are the decoded call arguments. Fields the Spec does not declare are
// passed through untouched.
type Args map[string]any

// String returns the named argument as a string. Non-string values are
// formatted; a missing key yields "".
func (a Args) String(name string) string {
	v, ok := a[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// RequireString is String but fails when the argument is absent.
func (a Args) RequireString(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// Int returns the named argument as an int, or def when absent or not numeric.
// JSON numbers decode as float64; numeric strings are also accepted.
func (a Args) Int(name string, def int) int {
	switch v := a[name].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscan(v, &n); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the named argument as a bool; "true" strings count.
func (a Args) Bool(name string) bool {
	switch v := a[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
