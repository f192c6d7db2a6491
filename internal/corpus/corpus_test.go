package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhollis/docchat/internal/model"
)

type stubSource struct {
	sections   []model.DocumentSection
	embeddings []model.SectionEmbedding
	err        error
	loads      int
}

func (s *stubSource) LoadSections(ctx context.Context) ([]model.DocumentSection, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.sections, nil
}

func (s *stubSource) LoadEmbeddings(ctx context.Context) ([]model.SectionEmbedding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.embeddings, nil
}

func TestService_LoadOnce(t *testing.T) {
	source := &stubSource{
		sections:   []model.DocumentSection{{ID: "1", Text: "body"}},
		embeddings: []model.SectionEmbedding{{SectionID: "1", Vector: []float32{1}}},
	}
	svc := NewService(source)

	docs, store, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, docs.Len())
	require.Equal(t, 1, store.Len())

	_, _, err = svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, source.loads)
}

func TestService_LoadError(t *testing.T) {
	loadErr := errors.New("backend down")
	svc := NewService(&stubSource{err: loadErr})

	_, _, err := svc.Load(context.Background())
	require.ErrorIs(t, err, loadErr)
}

func TestCorpus_Get(t *testing.T) {
	c := NewCorpus([]model.DocumentSection{
		{ID: "1", Title: "t", Text: "body"},
	})

	got, ok := c.Get("1")
	require.True(t, ok)
	require.Equal(t, "body", got.Text)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestEmbeddingStore_PreservesOrder(t *testing.T) {
	entries := []model.SectionEmbedding{
		{SectionID: "z"},
		{SectionID: "a"},
		{SectionID: "m"},
	}
	store := NewEmbeddingStore(entries)

	got := store.Entries()
	require.Equal(t, "z", got[0].SectionID)
	require.Equal(t, "a", got[1].SectionID)
	require.Equal(t, "m", got[2].SectionID)
}
