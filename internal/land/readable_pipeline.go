package land

import (
	"context"

	"mwi/internal/core"
	"mwi/internal/logger"
	"mwi/internal/readable"
)

// ReadablePipelineParams configures one RunReadablePipeline run.
type ReadablePipelineParams struct {
	Force       bool // re-extract even when readable is already set
	MergePolicy core.MergePolicy
	LLMEnabled  bool
}

// RunReadablePipeline extracts main-content text for every candidate
// expression (non-empty raw_html, empty readable, or all under Force),
// merges it into the expression per MergePolicy, and — when LLMEnabled
// — submits long-enough readable text to the LLM relevance gate,
// clamping relevance to 0 on a "non" verdict. Per-expression failures
// are isolated and counted, never aborting the run.
func (s *Service) RunReadablePipeline(ctx context.Context, landName string, params ReadablePipelineParams) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	exprs, err := s.Store.ListExpressions(ctx, l.ID, -1)
	if err != nil {
		return false, 0, 0, err
	}

	terms, err := s.Store.DictionaryTerms(ctx, l.ID)
	if err != nil {
		return false, 0, 0, err
	}

	policy := params.MergePolicy
	if policy == "" {
		policy = core.MergeSmart
	}

	for _, e := range exprs {
		if e.RawHTML == "" {
			continue
		}
		if e.Readable != "" && !params.Force {
			continue
		}

		res, err := s.Readable.Extract(ctx, []byte(e.RawHTML), e.URL)
		if err != nil {
			errs++
			logger.Warn("readable extraction failed", "expression_id", e.ID, "error", err.Error())
			continue
		}

		merged := readable.ApplyMerge(policy, e, res)
		if err := s.Store.UpdateReadableFields(ctx, e.ID, merged.Title, merged.Description, merged.Readable); err != nil {
			errs++
			continue
		}

		if params.LLMEnabled && len(merged.Readable) >= s.Cfg.Readable.MinLengthForLLMGate {
			if err := s.applyLLMGate(ctx, l, e.ID, terms, merged.Readable); err != nil {
				errs++
				logger.Warn("llm relevance gate failed", "expression_id", e.ID, "error", err.Error())
				continue
			}
		}

		processed++
	}
	return true, processed, errs, nil
}

func (s *Service) applyLLMGate(ctx context.Context, l core.Land, exprID int64, terms []string, text string) error {
	relevant, err := s.LLM.IsRelevant(ctx, terms, text)
	if err != nil {
		return err
	}

	verdict := core.ValidLLMOui
	if !relevant {
		verdict = core.ValidLLMNon
	}
	if err := s.Store.UpdateValidation(ctx, exprID, verdict, s.LLM.ModelName()); err != nil {
		return err
	}
	if verdict == core.ValidLLMNon {
		return s.Store.UpdateRelevance(ctx, exprID, 0)
	}
	return nil
}
