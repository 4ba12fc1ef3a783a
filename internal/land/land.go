// Package land is the orchestration layer: it wires C1-C7 plus the
// pluggable providers into the operations an external caller invokes
// (create a land, seed it, crawl, run the readable pipeline, score,
// embed, compute similarity, export). Every operation follows spec.md
// §6's contract — (ok bool, processed, errors int, err error), where
// ok mirrors the 1/0 exit-code convention and err is reserved for
// schema/cancellation failures that abort the operation outright.
package land

import (
	"context"
	"fmt"
	"strings"

	"mwi/internal/config"
	"mwi/internal/core"
	"mwi/internal/embedding"
	"mwi/internal/fetch"
	"mwi/internal/lemma"
	"mwi/internal/llmrelevance"
	"mwi/internal/logger"
	"mwi/internal/readable"
	"mwi/internal/seorank"
	"mwi/internal/store"
)

// Service is the single orchestration entry point. It holds the store
// and every pluggable provider the pipeline operations call out to.
type Service struct {
	Store    *store.Store
	Cfg      config.Config
	Readable readable.Extractor
	LLM      llmrelevance.Provider
	Embed    embedding.Provider
	SEO      seorank.Provider
}

// NewService builds a Service from already-constructed dependencies.
func NewService(st *store.Store, cfg config.Config, readableExtractor readable.Extractor, llm llmrelevance.Provider, embed embedding.Provider, seo seorank.Provider) *Service {
	return &Service{Store: st, Cfg: cfg, Readable: readableExtractor, LLM: llm, Embed: embed, SEO: seo}
}

// Create creates a new land. ok=false (with err=nil) on a duplicate
// name or empty name — a non-fatal, operation-return-0 failure per
// spec.md §7's IntegrityViolation/InvalidInput mapping.
func (s *Service) Create(ctx context.Context, name, description string, lang []string) (ok bool, l core.Land, err error) {
	l, err = s.Store.CreateLand(ctx, name, description, lang)
	if err != nil {
		if core.IsKind(err, core.KindIntegrityViolation) || core.IsKind(err, core.KindInvalidInput) {
			logger.Warn("land create rejected", "name", name, "error", err.Error())
			return false, core.Land{}, nil
		}
		return false, core.Land{}, err
	}
	return true, l, nil
}

// Delete removes a land and, via cascade, every entity it owns.
func (s *Service) Delete(ctx context.Context, name string) (ok bool, err error) {
	l, err := s.resolveLand(ctx, name)
	if err != nil {
		return false, nil
	}
	if err := s.Store.DeleteLand(ctx, l.ID); err != nil {
		if core.IsKind(err, core.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddTerm lowercases, strips and lemmatizes each term using the land's
// primary language, then inserts a Word and a LandDictionary row for
// each, idempotently. errors counts terms that failed to normalize to
// a non-empty lemma (e.g. empty input); it never aborts the batch.
func (s *Service) AddTerm(ctx context.Context, landName string, terms []string) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	for _, raw := range terms {
		term := strings.ToLower(strings.TrimSpace(raw))
		if term == "" {
			errs++
			continue
		}
		lemmaForm := lemma.Lemmatize(l.PrimaryLang(), term)
		w, err := s.Store.GetOrCreateWord(ctx, lemmaForm)
		if err != nil {
			errs++
			logger.Warn("addterm failed", "term", raw, "error", err.Error())
			continue
		}
		if err := s.Store.AddToDictionary(ctx, l.ID, w.ID); err != nil {
			errs++
			continue
		}
		processed++
	}
	return true, processed, errs, nil
}

// AddURL normalizes each URL, resolves (or creates) its registrable
// domain, and inserts a depth-0 Expression, idempotently. A malformed
// URL is counted as an error but never aborts the batch.
func (s *Service) AddURL(ctx context.Context, landName string, urls []string) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}

	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		normalized, err := fetch.NormalizeURL(raw)
		if err != nil {
			errs++
			logger.Warn("addurl rejected malformed url", "url", raw, "error", err.Error())
			continue
		}
		domainName, err := fetch.RegistrableDomain(normalized)
		if err != nil {
			errs++
			continue
		}
		dom, err := s.Store.GetOrCreateDomain(ctx, domainName)
		if err != nil {
			errs++
			continue
		}
		if _, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, normalized, 0); err != nil {
			errs++
			logger.Warn("addurl failed to create expression", "url", normalized, "error", err.Error())
			continue
		}
		processed++
	}
	return true, processed, errs, nil
}

func (s *Service) resolveLand(ctx context.Context, name string) (core.Land, error) {
	l, err := s.Store.GetLandByName(ctx, name)
	if err != nil {
		return core.Land{}, fmt.Errorf("land %q: %w", name, err)
	}
	return l, nil
}
