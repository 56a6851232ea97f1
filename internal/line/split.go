package line

import (
	"fmt"
	"strings"
)

// SplitMessage breaks text into parts no longer than limit runes, preferring
// line boundaries. When more than one part results, each is prefixed with an
// ordered 【i/n】 header so recipients can reassemble the original.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageRunes
	}
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			parts = append(parts, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, lineText := range strings.Split(text, "\n") {
		lineLen := len([]rune(lineText))
		switch {
		case currentLen == 0:
			current.WriteString(lineText)
			currentLen = lineLen
		case currentLen+lineLen+1 > limit:
			flush()
			current.WriteString(lineText)
			currentLen = lineLen
		default:
			current.WriteString("\n")
			current.WriteString(lineText)
			currentLen += lineLen + 1
		}
		// A single line longer than the limit is hard-wrapped.
		for currentLen > limit {
			runes := []rune(current.String())
			head, tail := string(runes[:limit]), string(runes[limit:])
			parts = append(parts, head)
			current.Reset()
			current.WriteString(tail)
			currentLen = len([]rune(tail))
		}
	}
	flush()

	if len(parts) <= 1 {
		return parts
	}
	numbered := make([]string, len(parts))
	for i, part := range parts {
		numbered[i] = fmt.Sprintf("【%d/%d】\n%s", i+1, len(parts), part)
	}
	return numbered
}
