package render

import "strings"

// ToMarkup writes the draft as markdown: the title as a top level heading, the
// author and date block, a separator, then every section in order.
func ToMarkup(draft *Draft) string {
	var blocks []string

	if draft.Title != "" {
		blocks = append(blocks, "# "+draft.Title)
	}

	if draft.Author != "" || draft.Date != "" {
		blocks = append(blocks,
			"**Author:** "+draft.Author,
			"**Date:** "+draft.Date,
			"---",
		)
	}

	for _, section := range draft.Sections {
		if section.Level > 0 {
			blocks = append(blocks, strings.Repeat("#", section.Level)+" "+section.Heading)
		}
		if section.Body != "" {
			blocks = append(blocks, section.Body)
		}
	}

	if len(blocks) == 0 {
		return ""
	}

	return strings.Join(blocks, "\n\n") + "\n"
}
