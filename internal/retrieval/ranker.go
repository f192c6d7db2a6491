package retrieval

import (
	"sort"

	"github.com/nhollis/docchat/internal/corpus"
	"github.com/nhollis/docchat/internal/model"
)

// Rank scores every stored section against the query vector and returns
// them in descending score order. Vectors are L2-normalized upstream, so
// the dot product is the cosine similarity. The sort is stable: equal
// scores keep the embedding store's insertion order.
func Rank(query []float32, store *corpus.EmbeddingStore) []model.ScoredSection {
	entries := store.Entries()
	scored := make([]model.ScoredSection, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, model.ScoredSection{
			Score:     dot(query, entry.Vector),
			SectionID: entry.SectionID,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// dot assumes both vectors share the corpus dimension; the embedding call
// contract guarantees it.
func dot(a, b []float32) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
