package analysis

import "strings"

// SectionMarker delimits titles and bodies in generated analysis text.
// The model is instructed to emit [SECTION]Title[SECTION]body pairs.
const SectionMarker = "[SECTION]"

// missingContent substitutes for a title whose body never arrived.
const missingContent = "Analysis not available"

// ParseSections splits raw model output on the section marker and pairs
// the fragments as title/content. Text with no marker at all is treated
// as free-form prose and yields no sections; a trailing title without a
// body gets the placeholder content.
func ParseSections(raw string) []Section {
	if !strings.Contains(raw, SectionMarker) {
		return []Section{}
	}

	parts := strings.Split(raw, SectionMarker)
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			fragments = append(fragments, p)
		}
	}

	// Pairing is positional: a title that trims to empty still consumes
	// its content fragment and is emitted with the empty title.
	sections := make([]Section, 0, len(fragments)/2+1)
	for i := 0; i < len(fragments); i += 2 {
		title := strings.TrimSpace(fragments[i])
		content := missingContent
		if i+1 < len(fragments) {
			if c := strings.TrimSpace(fragments[i+1]); c != "" {
				content = c
			}
		}
		sections = append(sections, Section{Title: title, Content: content})
	}
	return sections
}
