package prompt

import (
	"fmt"
	"strings"

	"github.com/nhollis/docchat/internal/model"
)

// TrimAnswer strips the spaces and newlines completion models like to wrap
// replies in. Nothing else: fallback detection depends on it.
func TrimAnswer(raw string) string {
	return strings.Trim(raw, " \n")
}

// IsFallback reports whether the model signalled "no answer". The match is
// case-sensitive and exact after trimming; an answer differing by even a
// punctuation mark is a real answer.
func IsFallback(raw string) bool {
	return TrimAnswer(raw) == FallbackAnswer
}

// FormatAnswer decorates a real answer with a sources block built from the
// first maxSources deduplicated links. A fallback answer is returned
// unchanged, and the second result tells the caller to skip follow-up
// suggestion generation.
func FormatAnswer(raw string, links []model.SourceLink, maxSources int) (string, bool) {
	answer := TrimAnswer(raw)
	if answer == FallbackAnswer {
		return answer, false
	}
	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("<span class = 'sources'> Sources: ")
	for i, link := range links {
		if i >= maxSources {
			break
		}
		b.WriteString(fmt.Sprintf(`<a href="%s" target="_blank" class="source-link" title="%s">%s</a>`,
			link.Link, link.Title, link.Title))
	}
	b.WriteString("</span>")
	return b.String(), true
}

// SuggestionPrompt asks the model for three short follow-up questions to
// the given answer, one per line.
func SuggestionPrompt(answer string) string {
	return fmt.Sprintf(`You are a helpful assistant. Based on the following answer, suggest 3 short and relevant follow-up questions a curious user might ask next.

Answer:
"""
%s
"""

List only the follow-up questions, each on its own line.`, answer)
}

// ParseSuggestions splits the model reply into lines, strips numbering and
// bullet prefixes, and drops blanks.
func ParseSuggestions(raw string) []string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	suggestions := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := strings.TrimSpace(strings.TrimLeft(line, "0123456789.)-* \t"))
		if cleaned == "" {
			continue
		}
		suggestions = append(suggestions, cleaned)
	}
	return suggestions
}
