package codec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeTags encodes tags as a JSON array. A nil slice encodes as "[]".
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(b)
}

// ParseTags decodes a JSON array of strings. Empty text and JSON null yield
// an empty, non-nil slice.
func ParseTags(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("codec: invalid tags %q: %w", text, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// DecodeTags is ParseTags with malformed input mapped to an empty slice.
func DecodeTags(text string) []string {
	tags, err := ParseTags(text)
	if err != nil {
		return []string{}
	}
	return tags
}
