package render

import (
	"errors"
	"regexp"
	"strings"
)

var (
	headingLine = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)(?:[ \t]+#+)?[ \t]*$`)
	fenceLine   = regexp.MustCompile("^\\s*(```|~~~)")
)

var ErrHeaderInjected = errors.New("document header already injected")

// Section is one heading and the text that follows it. Level 0 holds text
// that appears before any heading.
type Section struct {
	Level   int
	Heading string
	Body    string
}

// Draft is a document produced by the backend, waiting to be rendered.
type Draft struct {
	Title    string
	Sections []Section
	Author   string
	Date     string

	headerInjected bool
}

// ParseDraft splits markdown into a title and ordered sections. The first
// non-empty line is taken as the title when it is a level one heading;
// otherwise the draft has no title and everything becomes sections.
func ParseDraft(markdown string) *Draft {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")

	draft := &Draft{}

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start < len(lines) {
		if m := headingLine.FindStringSubmatch(strings.TrimSpace(lines[start])); m != nil && len(m[1]) == 1 {
			draft.Title = m[2]
			start++
		}
	}

	var (
		current *Section
		body    []string
		inFence bool
	)

	flush := func() {
		if current == nil {
			text := trimBlankLines(body)
			if text != "" {
				draft.Sections = append(draft.Sections, Section{Level: 0, Body: text})
			}
		} else {
			current.Body = trimBlankLines(body)
			draft.Sections = append(draft.Sections, *current)
		}
		body = nil
	}

	for _, line := range lines[start:] {
		if fenceLine.MatchString(line) {
			inFence = !inFence
		}

		if !inFence {
			if m := headingLine.FindStringSubmatch(line); m != nil {
				flush()
				current = &Section{Level: len(m[1]), Heading: m[2]}
				continue
			}
		}

		body = append(body, line)
	}
	flush()

	return draft
}

// InjectHeader sets the attribution block. A draft accepts it exactly once.
func (d *Draft) InjectHeader(author, date string) error {
	if d.headerInjected {
		return ErrHeaderInjected
	}

	d.Author = author
	d.Date = date
	d.headerInjected = true

	return nil
}

func trimBlankLines(lines []string) string {
	first, last := 0, len(lines)
	for first < last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last > first && strings.TrimSpace(lines[last-1]) == "" {
		last--
	}
	return strings.Join(lines[first:last], "\n")
}
