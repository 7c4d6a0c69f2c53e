package generation

import "strings"

// The upstream long-running-operation responses are deeply nested and the
// schema shifts between API revisions, so extraction is a best-effort
// search over the decoded JSON tree with an explicit not-found outcome
// rather than a fixed struct decode.

// FindString walks a decoded JSON value depth-first and returns the first
// string stored under a key accepted by match.
func FindString(v any, match func(key string) bool) (string, bool) {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			if s, ok := item.(string); ok && match(k) {
				return s, true
			}
		}
		for _, item := range val {
			if s, ok := FindString(item, match); ok {
				return s, true
			}
		}
	case []any:
		for _, item := range val {
			if s, ok := FindString(item, match); ok {
				return s, true
			}
		}
	}
	return "", false
}

// CollectStrings gathers every string found at or below keys accepted by
// match. Used for safety-filter reason lists.
func CollectStrings(v any, match func(key string) bool) []string {
	var out []string
	var walk func(v any, collecting bool)
	walk = func(v any, collecting bool) {
		switch val := v.(type) {
		case map[string]any:
			for k, item := range val {
				walk(item, collecting || match(k))
			}
		case []any:
			for _, item := range val {
				walk(item, collecting)
			}
		case string:
			if collecting {
				out = append(out, val)
			}
		}
	}
	walk(v, false)
	return out
}

// FindMediaURI searches an operation response for a playable media
// reference.
func FindMediaURI(v any) (string, bool) {
	uri, ok := FindString(v, func(key string) bool {
		switch key {
		case "uri", "videoUri", "url", "videoUrl":
			return true
		}
		return false
	})
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") && !strings.HasPrefix(uri, "gs://") {
		return "", false
	}
	return uri, true
}

// FilterReasons extracts safety-filter rejection reasons, wherever the
// current schema buried them.
func FilterReasons(v any) []string {
	return CollectStrings(v, func(key string) bool {
		lower := strings.ToLower(key)
		return strings.Contains(lower, "filteredreason") || strings.Contains(lower, "raireason")
	})
}
