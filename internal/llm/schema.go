package llm

// OpinionJSONSchema describes a serialized review opinion. The prose call
// refuses input that does not match it.
func OpinionJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"severity": map[string]any{"type": "string", "enum": []string{"high", "medium", "low", "info"}},
			"issue":    map[string]any{"type": "string", "minLength": 1},
			"detail":   map[string]any{"type": "string"},
			"action":   map[string]any{"type": "string"},
		},
		"required": []string{"severity", "issue", "detail", "action"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary":   map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
			"items":     map[string]any{"type": "array", "items": item},
			"questions": map[string]any{"type": "array", "maxItems": 6, "items": map[string]any{"type": "string"}},
		},
		"required": []string{"summary", "items", "questions"},
	}
}

// ProseJSONSchema constrains the model's reply.
func ProseJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"prose":      map[string]any{"type": "string", "minLength": 1},
			"highlights": map[string]any{"type": "array", "items": map[string]any{"type": "string", "minLength": 1}},
		},
		"required": []string{"prose"},
	}
}
