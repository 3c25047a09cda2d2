package tools

import (
	"github.com/invopop/jsonschema"
)

// InputSchema renders spec's parameters as a JSON object schema. Properties
// keep declaration order; number parameters are advertised as integers since
// every numeric argument the built-ins take is a count or an offset.
func InputSchema(spec Spec) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	required := []string{}
	for _, p := range spec.Params {
		props.Set(p.Name, &jsonschema.Schema{
			Type:        schemaType(p.Type),
			Description: p.Description,
		})
		if !p.Optional {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func schemaType(t ParamType) string {
	switch t {
	case TypeNumber:
		return "integer"
	case TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}
