package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/nanocode/tools"
)

// AnthropicTools renders specs as Messages API tool definitions.
func AnthropicTools(specs []tools.Spec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		schema := tools.InputSchema(s)
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        s.Name,
			Description: anthropic.String(s.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema.Properties,
				Required:   schema.Required,
			},
		}})
	}
	return out
}

type ChatTool struct {
	Type     string       `json:"type"`
	Function ChatFunction `json:"function"`
}

type ChatFunction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

// OpenAITools renders specs as chat-completions function tools.
func OpenAITools(specs []tools.Spec) []ChatTool {
	out := make([]ChatTool, 0, len(specs))
	for _, s := range specs {
		out = append(out, ChatTool{
			Type: "function",
			Function: ChatFunction{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  tools.InputSchema(s),
			},
		})
	}
	return out
}
