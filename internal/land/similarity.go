package land

import (
	"context"

	"mwi/internal/core"
	"mwi/internal/similarity"
)

// SimilarityParams configures one RunSimilarity run.
type SimilarityParams struct {
	Method       core.SimilarityMethodParam
	Threshold    float64
	TopK         int
	LSHBits      int
	MaxPairs     int
	MinRelevance int
}

// RunSimilarity computes ParagraphSimilarity rows for the land using
// either exact cosine or cosine-LSH, replacing any previous rows for
// that method. The LSH hyperplane matrix is seeded by the land id so
// repeated runs against unchanged embeddings are reproducible.
func (s *Service) RunSimilarity(ctx context.Context, landName string, params SimilarityParams) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	embeddings, err := s.Store.ListEmbeddings(ctx, l.ID, params.MinRelevance)
	if err != nil {
		return false, 0, 0, err
	}

	items := make([]similarity.Item, 0, len(embeddings))
	for _, e := range embeddings {
		items = append(items, similarity.Item{ParagraphID: e.ParagraphID, Vector: e.Vector})
	}

	method := params.Method
	if method == "" {
		method = core.MethodCosine
	}

	var sims []core.ParagraphSimilarity
	var storeMethod core.SimilarityMethod
	switch method {
	case core.MethodCosineLSH:
		storeMethod = core.SimilarityCosineLSH
		sims = similarity.CosineLSH(items, similarity.LSHOptions{
			Bits:     params.LSHBits,
			TopK:     params.TopK,
			MaxPairs: params.MaxPairs,
			Seed:     l.ID,
		})
	default:
		storeMethod = core.SimilarityCosine
		sims = similarity.ExactCosine(items, params.Threshold)
	}

	if err := s.Store.ReplaceSimilarities(ctx, l.ID, storeMethod, sims); err != nil {
		return false, 0, 0, err
	}
	return true, len(sims), 0, nil
}
