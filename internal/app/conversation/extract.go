package conversation

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON pulls a JSON document out of model text that may be wrapped in
// a markdown fence or surrounded by prose. It reports false when nothing
// parseable is found.
func ExtractJSON(text string) (string, bool) {
	candidate := text

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if start := firstOpen(text); start >= 0 {
		end := max(strings.LastIndex(text, "}"), strings.LastIndex(text, "]"))
		if end > start {
			candidate = text[start : end+1]
		}
	}

	candidate = strings.TrimSpace(candidate)
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// firstOpen is the index of the earliest '{' or '[', or -1.
func firstOpen(text string) int {
	brace, bracket := strings.Index(text, "{"), strings.Index(text, "[")
	switch {
	case brace < 0:
		return bracket
	case bracket < 0:
		return brace
	default:
		return min(brace, bracket)
	}
}
