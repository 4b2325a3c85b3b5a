package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func wordSchema() *Schema {
	return &Schema{
		Name:        "test-word",
		Description: "One vocabulary word",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":       map[string]any{"type": "string"},
				"difficulty": map[string]any{"type": "integer", "minimum": 1},
				"type":       map[string]any{"type": "string", "enum": []any{"noun", "verb", "adjective"}},
				"examples": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"word", "difficulty"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"word":"ubiquitous","difficulty":3,"type":"adjective"}`, false},
		{"optional fields omitted", `{"word":"commute","difficulty":1}`, false},
		{"array items", `{"word":"thrive","difficulty":2,"examples":["Plants thrive here."]}`, false},
		{"missing required", `{"word":"commute"}`, true},
		{"wrong type", `{"word":"commute","difficulty":"easy"}`, true},
		{"below minimum", `{"word":"commute","difficulty":0}`, true},
		{"enum mismatch", `{"word":"commute","difficulty":1,"type":"adverb"}`, true},
		{"bad array item", `{"word":"thrive","difficulty":2,"examples":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(wordSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("error type = %T, want *ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema: %v", err)
	}
}
