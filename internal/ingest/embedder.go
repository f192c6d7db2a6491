package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/ai"
	"github.com/nhollis/docchat/internal/model"
)

const (
	rateLimitBackoff = 30 * time.Second
	transientBackoff = 10 * time.Second
)

// BatchEmbedder runs the offline embedding pass with an explicit retry
// loop. API-level failures (rate limits, server errors, timeouts) are
// retried indefinitely with backoff; connection-level failures are retried
// once and then surfaced as fatal.
type BatchEmbedder struct {
	embedder ai.IEmbedder
	sleep    func(time.Duration)
}

func NewBatchEmbedder(embedder ai.IEmbedder) *BatchEmbedder {
	return &BatchEmbedder{embedder: embedder, sleep: time.Sleep}
}

func (b *BatchEmbedder) EmbedSections(ctx context.Context, sections []model.DocumentSection) ([]model.SectionEmbedding, error) {
	logger := logutil.GetLogger(ctx)
	embeddings := make([]model.SectionEmbedding, 0, len(sections))
	for i, section := range sections {
		vector, err := b.embedWithRetry(ctx, section.Text)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, model.SectionEmbedding{
			SectionID: section.ID,
			Vector:    vector,
		})
		if (i+1)%100 == 0 {
			logger.Info("embedding progress", zap.Int("done", i+1), zap.Int("total", len(sections)))
		}
	}
	return embeddings, nil
}

func (b *BatchEmbedder) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	logger := logutil.GetLogger(ctx)
	connectionRetried := false
	for {
		vector, err := b.embedder.Embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *ai.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.RateLimited():
			backoff := apiErr.RetryAfter
			if backoff <= 0 {
				backoff = rateLimitBackoff
			}
			logger.Warn("rate limit exceeded, retrying", zap.Duration("backoff", backoff))
			b.sleep(backoff)
		case errors.As(err, &apiErr):
			logger.Warn("api error, retrying", zap.Int("status", apiErr.StatusCode), zap.Duration("backoff", transientBackoff))
			b.sleep(transientBackoff)
		default:
			// Connection-level failure: one retry, then fatal.
			if connectionRetried {
				return nil, err
			}
			connectionRetried = true
			logger.Warn("connection error, retrying once", zap.Error(err), zap.Duration("backoff", transientBackoff))
			b.sleep(transientBackoff)
		}
	}
}
