package utils

import "encoding/json"

// SanitizeDocument prepares a decoded JSON document for persistence.
// Contract: any array directly nested inside an array is replaced by its
// JSON-encoded string; arrays nested inside objects are preserved; nil
// values are dropped from objects. Applied recursively.
func SanitizeDocument(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if item == nil {
				continue
			}
			out[k] = SanitizeDocument(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if inner, ok := item.([]any); ok {
				encoded, err := json.Marshal(inner)
				if err != nil {
					// Unencodable nested arrays are dropped rather than persisted raw.
					continue
				}
				out = append(out, string(encoded))
				continue
			}
			out = append(out, SanitizeDocument(item))
		}
		return out
	default:
		return v
	}
}
