package land

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"mwi/internal/core"
	"mwi/internal/fetch"
	"mwi/internal/logger"
)

// CrawlParams configures one Crawl run.
type CrawlParams struct {
	Limit      int    // -1 = unlimited, 0 = process nothing (spec.md §8 boundary case), >0 = cap
	Depth      int    // -1 = any depth
	HTTPStatus string // "" = select unfetched only
}

// Crawl fetches the land's candidate expressions under bounded
// concurrency, records the outcome on each, and discovers outbound
// links as depth+1 expressions within the land's discovery scope.
// Per-URL failures never abort the run; they land on the Expression's
// http_status and are counted in errs.
func (s *Service) Crawl(ctx context.Context, landName string, params CrawlParams) (ok bool, processed, errs int, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, 0, 0, nil
	}
	if params.Limit == 0 {
		// limit=0 means "process nothing", per spec.md §8's boundary
		// behavior for crawl_land with limit=0. Unlimited is -1, not 0.
		return true, 0, 0, nil
	}

	candidates, err := s.selectCandidates(ctx, l.ID, params)
	if err != nil {
		return false, 0, 0, err
	}
	if len(candidates) == 0 {
		return true, 0, 0, nil
	}

	tasks := make([]fetch.Task, 0, len(candidates))
	byURL := make(map[string]core.Expression, len(candidates))
	for _, e := range candidates {
		domain, derr := fetch.RegistrableDomain(e.URL)
		if derr != nil {
			domain = e.URL
		}
		tasks = append(tasks, fetch.Task{URL: e.URL, Domain: domain})
		byURL[e.URL] = e
	}

	pool := fetch.NewPool(fetch.Options{
		WorkerCount:    s.Cfg.Fetch.WorkerCount,
		PerDomainLimit: s.Cfg.Fetch.PerDomainLimit,
		MaxRetries:     s.Cfg.Fetch.MaxRetries,
		RetryBaseDelay: s.Cfg.Fetch.RetryBaseDelay,
		CrawlDelay:     s.Cfg.Fetch.CrawlDelay,
		RequestTimeout: s.Cfg.Fetch.RequestTimeout,
	})
	fetcher := fetch.NewFetcher(nil, s.Cfg.Fetch.MaxRedirects)

	var processedCount int64

	taskErrs := pool.Run(ctx, tasks, func(taskCtx context.Context, t fetch.Task) error {
		expr := byURL[t.URL]
		res, ferr := fetcher.Fetch(taskCtx, t.URL)
		if ferr != nil {
			return ferr
		}
		if err := s.Store.UpdateFetchResult(ctx, expr.ID, res.HTTPStatus, res.RawHTML, res.Title, res.Description); err != nil {
			return err
		}
		if res.HTTPStatus == "000" || res.HTTPStatus == "408" {
			// connection failure or timeout: returning an error makes the
			// pool retry; the last attempt's status stays on the expression
			return errors.New("fetch failed with status " + res.HTTPStatus)
		}
		atomic.AddInt64(&processedCount, 1)

		if res.HTTPStatus == "200" {
			if derr := s.discoverLinks(ctx, l, expr, res.Links, params.Depth); derr != nil {
				logger.Warn("link discovery failed", "expression_id", expr.ID, "error", derr.Error())
			}
		}
		return nil
	})

	return true, int(processedCount), len(taskErrs), nil
}

func (s *Service) selectCandidates(ctx context.Context, landID int64, params CrawlParams) ([]core.Expression, error) {
	if params.HTTPStatus != "" {
		all, err := s.Store.ListExpressions(ctx, landID, -1)
		if err != nil {
			return nil, err
		}
		var out []core.Expression
		for _, e := range all {
			if e.HTTPStatus != params.HTTPStatus {
				continue
			}
			if params.Depth >= 0 && e.Depth != params.Depth {
				continue
			}
			out = append(out, e)
			if params.Limit > 0 && len(out) >= params.Limit {
				break
			}
		}
		return out, nil
	}
	return s.Store.ListUnfetched(ctx, landID, params.Depth, params.Limit)
}

// discoverLinks resolves a parent expression's outbound links into new
// depth+1 Expressions, scoped to the land's discovery filter: same
// registrable domain as the parent, OR within the configured max
// discovery depth for off-domain links. Self-links are skipped because
// NormalizeURL+GetExpressionByURL make them idempotent no-ops that
// would otherwise self-link.
func (s *Service) discoverLinks(ctx context.Context, l core.Land, parent core.Expression, rawLinks []string, depthFilter int) error {
	parentDomain, err := fetch.RegistrableDomain(parent.URL)
	if err != nil {
		parentDomain = ""
	}

	for _, raw := range rawLinks {
		normalized, err := fetch.NormalizeURL(raw)
		if err != nil {
			continue
		}
		if normalized == parent.URL {
			continue
		}
		if strings.HasPrefix(raw, "#") {
			continue
		}

		targetDomain, err := fetch.RegistrableDomain(normalized)
		if err != nil {
			continue
		}
		childDepth := parent.Depth + 1
		sameDomain := targetDomain == parentDomain
		withinDiscoveryDepth := s.Cfg.Fetch.MaxDiscoveryDepth <= 0 || childDepth <= s.Cfg.Fetch.MaxDiscoveryDepth
		if !sameDomain && !withinDiscoveryDepth {
			continue
		}

		dom, err := s.Store.GetOrCreateDomain(ctx, targetDomain)
		if err != nil {
			continue
		}
		child, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, normalized, childDepth)
		if err != nil {
			continue
		}
		if err := s.Store.AddLink(ctx, parent.ID, child.ID); err != nil {
			return err
		}
	}
	return nil
}
