package retrieval

import (
	"strings"

	"github.com/nhollis/docchat/internal/corpus"
	"github.com/nhollis/docchat/internal/model"
)

// Assembly is the context block handed to the prompt builder, plus the
// section ids it was built from and their deduplicated source links.
type Assembly struct {
	Context    string
	SectionIDs []string
	Links      []model.SourceLink
}

type Assembler struct {
	separator    string
	separatorLen int
	tokenBudget  int
}

func NewAssembler(separator string, separatorLen, tokenBudget int) *Assembler {
	return &Assembler{
		separator:    separator,
		separatorLen: separatorLen,
		tokenBudget:  tokenBudget,
	}
}

// Assemble walks the ranked sections in score order and greedily packs them
// under the token budget. The running total is bumped by the section's
// token count plus the separator length before the budget check, so the
// section that would overshoot is excluded outright.
func (a *Assembler) Assemble(ranked []model.ScoredSection, c *corpus.Corpus) Assembly {
	var (
		parts []string
		ids   []string
		links []model.SourceLink
		total int
	)
	for _, item := range ranked {
		section, ok := c.Get(item.SectionID)
		if !ok {
			// Stale embedding with no matching section.
			continue
		}
		if strings.HasSuffix(section.Text, "?") {
			continue
		}
		total += section.NumTokens + a.separatorLen
		if total > a.tokenBudget {
			break
		}
		parts = append(parts, a.separator+strings.ReplaceAll(section.Text, "\n", " "))
		links = append(links, model.SourceLink{Link: section.Link, Title: section.Title})
		ids = append(ids, section.ID)
	}
	return Assembly{
		Context:    strings.Join(parts, ""),
		SectionIDs: ids,
		Links:      DedupLinks(links),
	}
}

// DedupLinks drops repeated (link, title) pairs, keeping first-seen order.
func DedupLinks(links []model.SourceLink) []model.SourceLink {
	seen := make(map[model.SourceLink]bool, len(links))
	uniq := make([]model.SourceLink, 0, len(links))
	for _, l := range links {
		if seen[l] {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	return uniq
}
