package api

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

var sensitiveKey = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|authorization)`)

const (
	maxRedactString = 200
	maxRedactItems  = 10
	maxRedactDepth  = 3
)

// Redact returns a copy of v that is safe to log: sensitive keys and values are
// replaced, long strings and lists are truncated, and deep nesting is cut off.
func Redact(v any) any {
	return redact(v, 0)
}

func redact(v any, depth int) any {
	if depth > maxRedactDepth {
		return "[Truncated]"
	}

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if sensitiveKey.MatchString(val) {
			return "[REDACTED]"
		}
		if len(val) > maxRedactString {
			return val[:maxRedactString] + "…"
		}
		return val
	case bool, int, int64, float64:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return redact(string(val), depth)
		}
		return redact(decoded, depth)
	case []Issue:
		out := make([]any, 0, min(len(val), maxRedactItems))
		for _, issue := range val[:min(len(val), maxRedactItems)] {
			out = append(out, issue.String())
		}
		return out
	case []any:
		out := make([]any, 0, min(len(val), maxRedactItems))
		for _, item := range val[:min(len(val), maxRedactItems)] {
			out = append(out, redact(item, depth+1))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if sensitiveKey.MatchString(k) {
				out[k] = "[REDACTED]"
				continue
			}
			out[k] = redact(item, depth+1)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}
