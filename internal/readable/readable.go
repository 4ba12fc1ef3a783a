// Package readable implements C4: a pluggable ReadableExtractor, a
// goquery-based default implementation, merge policies that reconcile
// an extractor's output with an expression's already-stored fields,
// and the LLM relevance gate that runs after extraction.
//
// The provider-plus-factory shape follows the teacher's search.Provider
// / ProviderFactory pattern, generalized from search-result providers
// to readable-content extractors.
package readable

import (
	"context"

	"mwi/internal/core"
)

// Result is what an extractor returns for one document.
type Result struct {
	Title       string
	Description string
	Text        string
}

// Extractor is the pluggable readable-content extractor spec.md §6
// names ReadableExtractor.
type Extractor interface {
	Extract(ctx context.Context, html []byte, url string) (Result, error)
	Name() string
}

// ExtractorFactory builds a named Extractor, mirroring the teacher's
// search.ProviderFactory.
type ExtractorFactory struct{}

// NewExtractorFactory returns a factory that knows how to build every
// extractor this engine ships.
func NewExtractorFactory() *ExtractorFactory { return &ExtractorFactory{} }

// Create builds the extractor named by kind. "goquery" (the default)
// is the only built-in implementation; an unrecognized kind falls back
// to it rather than failing the pipeline.
func (f *ExtractorFactory) Create(kind string) Extractor {
	switch kind {
	case "goquery", "":
		return NewGoQueryExtractor()
	default:
		return NewGoQueryExtractor()
	}
}

// ApplyMerge reconciles an extractor's Result with an expression's
// already-stored Title/Description/Readable according to policy:
//   - smart_merge: keep the existing value unless it's empty
//   - overwrite: the extractor's output always wins
//   - mercury_priority: the extractor's title/description always win
//     (no Mercury-specific extractor exists in this engine, but the
//     priority rule still applies to whichever extractor is wired in);
//     the existing readable text is kept only if it's longer than the
//     extractor's
func ApplyMerge(policy core.MergePolicy, expr core.Expression, res Result) core.Expression {
	switch policy {
	case core.MergeOverwrite:
		if res.Title != "" {
			expr.Title = res.Title
		}
		if res.Description != "" {
			expr.Description = res.Description
		}
		expr.Readable = res.Text
	case core.MergeMercury:
		if res.Title != "" {
			expr.Title = res.Title
		}
		if res.Description != "" {
			expr.Description = res.Description
		}
		if len(res.Text) > len(expr.Readable) {
			expr.Readable = res.Text
		}
	default: // smart_merge
		if expr.Title == "" && res.Title != "" {
			expr.Title = res.Title
		}
		if expr.Description == "" && res.Description != "" {
			expr.Description = res.Description
		}
		if expr.Readable == "" {
			expr.Readable = res.Text
		}
	}
	return expr
}
