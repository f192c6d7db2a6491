package corpus

import (
	"context"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/nhollis/docchat/internal/config"
	"github.com/nhollis/docchat/internal/model"
)

const (
	sectionsTable   = "document_sections"
	embeddingsTable = "section_embeddings"
)

type postgresSource struct {
	db *sqlx.DB
}

func newPostgresSource(cfg config.PostgresCorpusConfig) (*postgresSource, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect corpus db: %w", err)
	}
	return &postgresSource{db: db}, nil
}

type sectionRow struct {
	ID        string `db:"unique_id"`
	Title     string `db:"title"`
	Link      string `db:"article_link"`
	Text      string `db:"article_text"`
	NumTokens int    `db:"num_tokens"`
}

type embeddingRow struct {
	SectionID string          `db:"unique_id"`
	Embedding pgvector.Vector `db:"embedding"`
}

func (p *postgresSource) LoadSections(ctx context.Context) ([]model.DocumentSection, error) {
	where := map[string]interface{}{
		"_orderby": "pos asc",
	}
	query, args, err := builder.BuildSelect(sectionsTable,
		where, []string{"unique_id", "title", "article_link", "article_text", "num_tokens"})
	if err != nil {
		return nil, err
	}
	var rows []sectionRow
	if err := p.db.SelectContext(ctx, &rows, p.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	sections := make([]model.DocumentSection, 0, len(rows))
	for _, r := range rows {
		sections = append(sections, model.DocumentSection{
			ID:        r.ID,
			Title:     r.Title,
			Link:      r.Link,
			Text:      r.Text,
			NumTokens: r.NumTokens,
		})
	}
	return sections, nil
}

func (p *postgresSource) LoadEmbeddings(ctx context.Context) ([]model.SectionEmbedding, error) {
	where := map[string]interface{}{
		"_orderby": "pos asc",
	}
	query, args, err := builder.BuildSelect(embeddingsTable, where, []string{"unique_id", "embedding"})
	if err != nil {
		return nil, err
	}
	var rows []embeddingRow
	if err := p.db.SelectContext(ctx, &rows, p.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	embeddings := make([]model.SectionEmbedding, 0, len(rows))
	for _, r := range rows {
		embeddings = append(embeddings, model.SectionEmbedding{
			SectionID: r.SectionID,
			Vector:    r.Embedding.Slice(),
		})
	}
	return embeddings, nil
}

func (p *postgresSource) SaveSections(ctx context.Context, sections []model.DocumentSection) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM "+sectionsTable); err != nil {
		return err
	}
	data := make([]map[string]interface{}, 0, len(sections))
	for i, s := range sections {
		data = append(data, map[string]interface{}{
			"unique_id":    s.ID,
			"title":        s.Title,
			"article_link": s.Link,
			"article_text": s.Text,
			"num_tokens":   s.NumTokens,
			"pos":          i,
		})
	}
	if len(data) == 0 {
		return nil
	}
	query, args, err := builder.BuildInsert(sectionsTable, data)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, p.db.Rebind(query), args...)
	return err
}

func (p *postgresSource) SaveEmbeddings(ctx context.Context, embeddings []model.SectionEmbedding) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM "+embeddingsTable); err != nil {
		return err
	}
	query := p.db.Rebind("INSERT INTO " + embeddingsTable + " (unique_id, embedding, pos) VALUES (?, ?, ?)")
	for i, e := range embeddings {
		if _, err := p.db.ExecContext(ctx, query, e.SectionID, pgvector.NewVector(e.Vector), i); err != nil {
			return err
		}
	}
	return nil
}
