package insight

import (
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no JSON payload in model output")

// SliceJSON cuts the best-effort JSON payload out of free-form model text:
// markdown fences are dropped, then everything from the first open to the
// last matching close character is kept. It does not scan for real JSON
// boundaries, so prose containing the delimiters can confuse it; the caller's
// json.Unmarshal is the real check.
func SliceJSON(raw string, open byte) (string, error) {
	var closing byte
	switch open {
	case '{':
		closing = '}'
	case '[':
		closing = ']'
	default:
		return "", errors.New("insight: SliceJSON open must be '{' or '['")
	}

	trimmed := stripFences(strings.TrimSpace(raw))
	start := strings.IndexByte(trimmed, open)
	end := strings.LastIndexByte(trimmed, closing)
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return trimmed[start : end+1], nil
}

func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
