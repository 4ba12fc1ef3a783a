package land

import (
	"context"

	"mwi/internal/core"
	"mwi/internal/embedding"
	"mwi/internal/logger"
)

// ExtractParagraphs splits every expression's readable text into
// paragraphs and persists them, deduplicated by text_hash across the
// whole store. It is the prerequisite step GenerateEmbeddings runs
// before calling the embedding provider.
func (s *Service) ExtractParagraphs(ctx context.Context, landName string) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	exprs, err := s.Store.ListExpressions(ctx, l.ID, -1)
	if err != nil {
		return false, 0, 0, err
	}

	for _, e := range exprs {
		if e.Readable == "" {
			continue
		}
		for _, p := range embedding.BuildParagraphs(e.ID, e.Readable, s.Cfg.Embedding.MinParagraphChars) {
			if _, _, err := s.Store.CreateParagraph(ctx, p); err != nil {
				errs++
				logger.Warn("paragraph creation failed", "expression_id", e.ID, "error", err.Error())
				continue
			}
			processed++
		}
	}
	return true, processed, errs, nil
}

// GenerateEmbeddings embeds every paragraph in the land that doesn't
// have one yet, batched by Cfg.Embedding.BatchSize. Mixing embedding
// models within one land is forbidden: if the land already holds
// embeddings from a different model than s.Embed.ModelName(), the run
// fails fast with an *embedding.ErrModelMismatch rather than silently
// producing mixed-dimension rows.
func (s *Service) GenerateEmbeddings(ctx context.Context, landName string) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	existing, err := s.Store.ListEmbeddings(ctx, l.ID, -1)
	if err != nil {
		return false, 0, 0, err
	}
	if len(existing) > 0 && existing[0].ModelName != s.Embed.ModelName() {
		return false, 0, 0, &embedding.ErrModelMismatch{Stored: existing[0].ModelName, Requested: s.Embed.ModelName()}
	}

	pending, err := s.Store.ListParagraphsWithoutEmbedding(ctx, l.ID, 0)
	if err != nil {
		return false, 0, 0, err
	}

	batchSize := s.Cfg.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.Text
		}

		vectors, err := s.Embed.Embed(ctx, texts)
		if err != nil {
			errs += len(batch)
			logger.Warn("embedding batch failed", "land", landName, "error", err.Error())
			continue
		}

		for i, p := range batch {
			pe := core.ParagraphEmbedding{
				ParagraphID: p.ID,
				Vector:      vectors[i],
				ModelName:   s.Embed.ModelName(),
				Dimension:   s.Embed.Dimension(),
			}
			if err := s.Store.PutEmbedding(ctx, pe); err != nil {
				errs++
				continue
			}
			processed++
		}
	}
	return true, processed, errs, nil
}

// ResetEmbeddings atomically removes every Paragraph, ParagraphEmbedding
// and ParagraphSimilarity attached to the land, so a different embedding
// model can be adopted without a stale mix of vector dimensions.
func (s *Service) ResetEmbeddings(ctx context.Context, landName string) (ok bool, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, nil
	}
	if err := s.Store.ResetEmbeddings(ctx, l.ID); err != nil {
		return false, err
	}
	return true, nil
}
