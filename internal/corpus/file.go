package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/nhollis/docchat/internal/config"
	"github.com/nhollis/docchat/internal/filestore"
	"github.com/nhollis/docchat/internal/model"
)

type fileSource struct {
	store         filestore.Store
	sectionsKey   string
	embeddingsKey string
}

func newFileSource(cfg config.FileCorpusConfig) (*fileSource, error) {
	store, err := filestore.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init corpus file store: %w", err)
	}
	return &fileSource{
		store:         store,
		sectionsKey:   cfg.SectionsKey,
		embeddingsKey: cfg.EmbeddingsKey,
	}, nil
}

func (f *fileSource) LoadSections(ctx context.Context) ([]model.DocumentSection, error) {
	var sections []model.DocumentSection
	if err := f.readJSON(ctx, f.sectionsKey, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (f *fileSource) LoadEmbeddings(ctx context.Context) ([]model.SectionEmbedding, error) {
	var embeddings []model.SectionEmbedding
	if err := f.readJSON(ctx, f.embeddingsKey, &embeddings); err != nil {
		return nil, err
	}
	return embeddings, nil
}

func (f *fileSource) SaveSections(ctx context.Context, sections []model.DocumentSection) error {
	return f.writeJSON(ctx, f.sectionsKey, sections)
}

func (f *fileSource) SaveEmbeddings(ctx context.Context, embeddings []model.SectionEmbedding) error {
	return f.writeJSON(ctx, f.embeddingsKey, embeddings)
}

func (f *fileSource) readJSON(ctx context.Context, key string, dst interface{}) error {
	r, err := f.store.Open(ctx, key)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	defer r.Close()
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (f *fileSource) writeJSON(ctx context.Context, key string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := f.store.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
