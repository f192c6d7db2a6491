package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhollis/docchat/internal/corpus"
	"github.com/nhollis/docchat/internal/model"
)

func testCorpus(sections ...model.DocumentSection) *corpus.Corpus {
	return corpus.NewCorpus(sections)
}

func ranked(ids ...string) []model.ScoredSection {
	scored := make([]model.ScoredSection, 0, len(ids))
	score := float32(1.0)
	for _, id := range ids {
		scored = append(scored, model.ScoredSection{Score: score, SectionID: id})
		score -= 0.1
	}
	return scored
}

func TestAssemble_BudgetExcludesOvershootingSection(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "1", Title: "t1", Link: "l1", Text: "first", NumTokens: 100},
		model.DocumentSection{ID: "2", Title: "t2", Link: "l2", Text: "second", NumTokens: 100},
		model.DocumentSection{ID: "3", Title: "t3", Link: "l3", Text: "third", NumTokens: 1850},
	)
	a := NewAssembler("\n* ", 3, 2000)

	got := a.Assemble(ranked("1", "2", "3"), c)

	require.Equal(t, []string{"1", "2"}, got.SectionIDs)
	require.NotContains(t, got.Context, "third")
	require.Equal(t, "\n* first\n* second", got.Context)
}

func TestAssemble_SkipsQuestionSections(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "1", Title: "t1", Link: "l1", Text: "is this useful?", NumTokens: 10},
		model.DocumentSection{ID: "2", Title: "t2", Link: "l2", Text: "an actual statement", NumTokens: 10},
	)
	a := NewAssembler("\n* ", 3, 2000)

	got := a.Assemble(ranked("1", "2"), c)

	require.Equal(t, []string{"2"}, got.SectionIDs)
	require.False(t, strings.Contains(got.Context, "useful"))
}

func TestAssemble_SkippedSectionConsumesNoBudget(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "q", Title: "t", Link: "l", Text: "big question?", NumTokens: 5000},
		model.DocumentSection{ID: "s", Title: "t", Link: "l", Text: "statement", NumTokens: 10},
	)
	a := NewAssembler("\n* ", 3, 100)

	got := a.Assemble(ranked("q", "s"), c)

	require.Equal(t, []string{"s"}, got.SectionIDs)
}

func TestAssemble_IgnoresUnknownSectionIDs(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "known", Title: "t", Link: "l", Text: "body", NumTokens: 10},
	)
	a := NewAssembler("\n* ", 3, 2000)

	got := a.Assemble(ranked("ghost", "known"), c)

	require.Equal(t, []string{"known"}, got.SectionIDs)
}

func TestAssemble_NormalizesNewlines(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "1", Title: "t", Link: "l", Text: "line one\nline two", NumTokens: 10},
	)
	a := NewAssembler("\n* ", 3, 2000)

	got := a.Assemble(ranked("1"), c)

	require.Equal(t, "\n* line one line two", got.Context)
}

func TestAssemble_DedupesLinksPreservingOrder(t *testing.T) {
	c := testCorpus(
		model.DocumentSection{ID: "1", Title: "guide", Link: "l1", Text: "a", NumTokens: 1},
		model.DocumentSection{ID: "2", Title: "guide", Link: "l1", Text: "b", NumTokens: 1},
		model.DocumentSection{ID: "3", Title: "faq", Link: "l2", Text: "c", NumTokens: 1},
	)
	a := NewAssembler("\n* ", 3, 2000)

	got := a.Assemble(ranked("1", "2", "3"), c)

	require.Equal(t, []model.SourceLink{
		{Link: "l1", Title: "guide"},
		{Link: "l2", Title: "faq"},
	}, got.Links)
}

func TestDedupLinks_Idempotent(t *testing.T) {
	links := []model.SourceLink{
		{Link: "a", Title: "A"},
		{Link: "b", Title: "B"},
		{Link: "a", Title: "A"},
		{Link: "a", Title: "other title"},
	}

	once := DedupLinks(links)
	twice := DedupLinks(once)

	require.Equal(t, []model.SourceLink{
		{Link: "a", Title: "A"},
		{Link: "b", Title: "B"},
		{Link: "a", Title: "other title"},
	}, once)
	require.Equal(t, once, twice)
}

func TestAssemble_EmptyRanking(t *testing.T) {
	a := NewAssembler("\n* ", 3, 2000)
	got := a.Assemble(nil, testCorpus())
	require.Empty(t, got.Context)
	require.Empty(t, got.SectionIDs)
	require.Empty(t, got.Links)
}
