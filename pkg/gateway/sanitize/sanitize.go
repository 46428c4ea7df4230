package sanitize

import (
	"regexp"
	"strings"
)

// reasoningMarker matches the open and close forms of both accepted spellings,
// <think> and <thinking>. Group 1 is "/" for a closing marker.
var reasoningMarker = regexp.MustCompile(`(?i)<(/?)think(?:ing)?>`)

// ChatText removes every span enclosed by a matched pair of reasoning markers
// and trims the result. Spellings may be mixed and spans may nest or repeat.
// Markers without a counterpart are left in place.
func ChatText(text string) string {
	for {
		stripped := stripMatchedSpans(text)
		if stripped == text {
			break
		}
		text = stripped
	}

	return strings.TrimSpace(text)
}

// stripMatchedSpans performs a single pass. Removing spans can join fragments
// into a new marker, so ChatText repeats until nothing changes.
func stripMatchedSpans(text string) string {
	markers := reasoningMarker.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return text
	}

	type span struct{ start, end int }

	var (
		opens []int
		spans []span
	)

	for _, m := range markers {
		start, end := m[0], m[1]
		closing := m[3] > m[2]

		if !closing {
			opens = append(opens, start)
			continue
		}
		if len(opens) == 0 {
			continue
		}

		open := opens[len(opens)-1]
		opens = opens[:len(opens)-1]

		// an outer pair swallows every pair recorded inside it
		for len(spans) > 0 && spans[len(spans)-1].start >= open {
			spans = spans[:len(spans)-1]
		}
		spans = append(spans, span{start: open, end: end})
	}

	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		last = s.end
	}
	b.WriteString(text[last:])

	return b.String()
}

// ContainsReasoning reports whether text still holds any reasoning marker.
func ContainsReasoning(text string) bool {
	return reasoningMarker.MatchString(text)
}
