package model

// DocumentSection is one retrievable unit of the corpus. Sections are
// immutable after the corpus is loaded.
type DocumentSection struct {
	ID        string `json:"unique_id"`
	Title     string `json:"title"`
	Link      string `json:"article_link"`
	Text      string `json:"article_text"`
	NumTokens int    `json:"num_tokens"`
}

// SectionEmbedding pairs a section id with its precomputed vector. Vectors
// are assumed L2-normalized so dot product equals cosine similarity.
type SectionEmbedding struct {
	SectionID string    `json:"unique_id"`
	Vector    []float32 `json:"vector"`
}

// ScoredSection is produced fresh per query and never persisted.
type ScoredSection struct {
	Score     float32
	SectionID string
}

// SourceLink is a citation attached to an answer.
type SourceLink struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}
