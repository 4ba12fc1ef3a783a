package land

import (
	"context"

	"mwi/internal/lemma"
	"mwi/internal/logger"
)

// ConsolidateParams optionally restricts a relevance run to a subset
// of a land's fetched expressions.
type ConsolidateParams struct {
	Depth        int // -1 = any depth
	MinRelevance int // -1 = no pre-filter; relevance is recomputed regardless
}

// Consolidate re-scores every fetched expression in the land against
// its current dictionary snapshot. It is a full rescan: re-running it
// with unchanged inputs produces bit-identical scores, since Score is a
// pure function of (dictionary terms, lemmatized fields, validllm).
func (s *Service) Consolidate(ctx context.Context, landName string, params ConsolidateParams) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	terms, err := s.Store.DictionaryTerms(ctx, l.ID)
	if err != nil {
		return false, 0, 0, err
	}

	exprs, err := s.Store.ListExpressions(ctx, l.ID, params.MinRelevance)
	if err != nil {
		return false, 0, 0, err
	}

	weights := lemma.Weights{
		Title:       s.Cfg.Scoring.TitleWeight,
		Description: s.Cfg.Scoring.DescriptionWeight,
		Readable:    s.Cfg.Scoring.ReadableWeight,
	}

	for _, e := range exprs {
		if e.FetchedAt == nil {
			continue
		}
		if params.Depth >= 0 && e.Depth != params.Depth {
			continue
		}

		score := lemma.Score(l.PrimaryLang(), terms, e.Title, e.Description, e.Readable, weights, e.ValidLLM)
		if err := s.Store.UpdateRelevance(ctx, e.ID, score); err != nil {
			errs++
			logger.Warn("relevance update failed", "expression_id", e.ID, "error", err.Error())
			continue
		}
		processed++
	}
	return true, processed, errs, nil
}

// ConsolidateSEORank calls the SEO enrichment provider for every
// qualifying expression above minRelevance and stores the raw JSON
// payload verbatim — a supplemented operation (see SPEC_FULL.md's data
// model supplement on seorank storage), not an interpretation of the
// payload's contents.
func (s *Service) ConsolidateSEORank(ctx context.Context, landName string, minRelevance int) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	exprs, err := s.Store.ListExpressions(ctx, l.ID, minRelevance)
	if err != nil {
		return false, 0, 0, err
	}

	for _, e := range exprs {
		payload, err := s.SEO.Enrich(ctx, e.URL)
		if err != nil {
			errs++
			logger.Warn("seo enrichment failed", "expression_id", e.ID, "error", err.Error())
			continue
		}
		if err := s.Store.UpdateSEORank(ctx, e.ID, payload); err != nil {
			errs++
			continue
		}
		processed++
	}
	return true, processed, errs, nil
}
