package corpus

import (
	"context"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/config"
	"github.com/nhollis/docchat/internal/model"
)

// Corpus is the fixed collection of document sections, read-only after load.
type Corpus struct {
	sections map[string]model.DocumentSection
}

func NewCorpus(sections []model.DocumentSection) *Corpus {
	m := make(map[string]model.DocumentSection, len(sections))
	for _, s := range sections {
		m[s.ID] = s
	}
	return &Corpus{sections: m}
}

func (c *Corpus) Get(id string) (model.DocumentSection, bool) {
	s, ok := c.sections[id]
	return s, ok
}

func (c *Corpus) Len() int {
	return len(c.sections)
}

// EmbeddingStore holds one vector per section id, in source order. The
// order matters: the ranker's stable sort breaks score ties by it.
type EmbeddingStore struct {
	entries []model.SectionEmbedding
}

func NewEmbeddingStore(entries []model.SectionEmbedding) *EmbeddingStore {
	return &EmbeddingStore{entries: entries}
}

func (s *EmbeddingStore) Entries() []model.SectionEmbedding {
	return s.entries
}

func (s *EmbeddingStore) Len() int {
	return len(s.entries)
}

// Source loads the serialized corpus tables.
type Source interface {
	LoadSections(ctx context.Context) ([]model.DocumentSection, error)
	LoadEmbeddings(ctx context.Context) ([]model.SectionEmbedding, error)
}

// Sink persists corpus tables produced by the offline prep commands.
type Sink interface {
	SaveSections(ctx context.Context, sections []model.DocumentSection) error
	SaveEmbeddings(ctx context.Context, embeddings []model.SectionEmbedding) error
}

func NewSource(cfg config.CorpusConfig) (Source, error) {
	switch cfg.Source {
	case "file":
		return newFileSource(cfg.File)
	case "postgres":
		return newPostgresSource(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported corpus source: %s", cfg.Source)
	}
}

func NewSink(cfg config.CorpusConfig) (Sink, error) {
	switch cfg.Source {
	case "file":
		return newFileSource(cfg.File)
	case "postgres":
		return newPostgresSource(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported corpus sink: %s", cfg.Source)
	}
}

// Service owns the lazily-initialized shared corpus state. After the first
// successful load the corpus and embedding store are never mutated, so
// concurrent readers need no locking.
type Service struct {
	source Source

	once   sync.Once
	corpus *Corpus
	store  *EmbeddingStore
	err    error
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

func (s *Service) Load(ctx context.Context) (*Corpus, *EmbeddingStore, error) {
	s.once.Do(func() {
		sections, err := s.source.LoadSections(ctx)
		if err != nil {
			s.err = fmt.Errorf("load sections: %w", err)
			return
		}
		embeddings, err := s.source.LoadEmbeddings(ctx)
		if err != nil {
			s.err = fmt.Errorf("load embeddings: %w", err)
			return
		}
		s.corpus = NewCorpus(sections)
		s.store = NewEmbeddingStore(embeddings)
		logutil.GetLogger(ctx).Info("corpus loaded",
			zap.Int("sections", s.corpus.Len()),
			zap.Int("embeddings", s.store.Len()),
		)
	})
	return s.corpus, s.store, s.err
}
