package services

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject recovers a JSON object from model output that may be
// wrapped in prose or code fences despite a JSON-only instruction.
//
// Contract: strip markdown fences, try a strict parse, then fall back to
// the span from the first '{' to the last '}'. There is no bracket
// balancing: a response containing multiple independent objects, or
// unrelated braces outside the true object, can mis-extract. That is an
// accepted limitation of this recovery path.
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	cleaned := stripCodeFences(raw)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, &MalformedOutputError{Message: "model output was not valid JSON"}
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Skip the opening fence and its optional language tag line.
	start := 3
	if nl := strings.Index(s[start:], "\n"); nl != -1 {
		start += nl + 1
	}
	if end := strings.Index(s[start:], "```"); end != -1 {
		s = s[start : start+end]
	} else {
		s = s[start:]
	}

	return strings.TrimSpace(s)
}
