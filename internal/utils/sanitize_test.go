package utils

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitizeDocument(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name:  "Scalar passes through",
			input: "hello",
			want:  "hello",
		},
		{
			name:  "Array inside object is preserved",
			input: map[string]any{"tags": []any{"a", "b"}},
			want:  map[string]any{"tags": []any{"a", "b"}},
		},
		{
			name:  "Array directly inside array becomes JSON string",
			input: []any{[]any{"a", "b"}, "c"},
			want:  []any{`["a","b"]`, "c"},
		},
		{
			name:  "Nil values dropped from objects",
			input: map[string]any{"keep": "x", "drop": nil},
			want:  map[string]any{"keep": "x"},
		},
		{
			name: "Deeply nested mixed structure",
			input: map[string]any{
				"sets": []any{
					map[string]any{
						"versions": []any{
							map[string]any{"text": "v1", "empty": nil},
						},
					},
					[]any{1.0, 2.0},
				},
			},
			want: map[string]any{
				"sets": []any{
					map[string]any{
						"versions": []any{
							map[string]any{"text": "v1"},
						},
					},
					`[1,2]`,
				},
			},
		},
		{
			name:  "Empty array stays empty",
			input: []any{},
			want:  []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDocument(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeDocument(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeDocumentRoundTrips(t *testing.T) {
	// Sanitized output must itself be valid JSON material.
	input := []any{[]any{"x"}, map[string]any{"inner": []any{"y", nil}}}
	out := SanitizeDocument(input)
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("sanitized document does not marshal: %v", err)
	}
}
