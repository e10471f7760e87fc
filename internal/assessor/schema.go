package assessor

import "github.com/abhisek/ethiq/internal/llm"

// CommentarySchema defines the JSON schema for assessor commentary.
var CommentarySchema = &llm.Schema{
	Name:        "candidate-commentary",
	Description: "Narrative feedback on a candidate's behaviour and work ethics scores",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence overview of the candidate's profile",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-4 strengths grounded in the highest scoring dimensions",
			},
			"development_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-4 areas to explore in the next interview",
			},
		},
		"required":             []any{"summary", "strengths", "development_areas"},
		"additionalProperties": false,
	},
}
