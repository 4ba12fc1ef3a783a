package land

import (
	"context"
	"time"

	"mwi/internal/core"
	"mwi/internal/export"
)

// ExportParams configures one Export run.
type ExportParams struct {
	Backend      export.Format
	MinRelevance int
	BatchSize    int // corpus only; 0 = export.Corpus's own default
}

// Export serializes the land's qualifying data into the backend named
// by params.Backend, writing into Cfg.DataDir. It returns the path(s)
// written: a single file for most backends, the nodes and edges files
// for nodelinkcsv, and for corpus each archive's file name (as recorded
// in the manifest) followed by the manifest's path.
func (s *Service) Export(ctx context.Context, landName string, params ExportParams, now time.Time) (ok bool, paths []string, err error) {
	l, rerr := s.resolveLand(ctx, landName)
	if rerr != nil {
		return false, nil, nil
	}

	exprs, err := s.Store.ListExpressions(ctx, l.ID, -1)
	if err != nil {
		return false, nil, err
	}
	domainNames, err := s.domainNameIndex(ctx, exprs)
	if err != nil {
		return false, nil, err
	}

	outPath := export.OutputPath(s.Cfg.DataDir, l.Name, params.Backend, now)

	switch params.Backend {
	case export.FormatPageCSV:
		if err := export.PageCSV(outPath, exprs, domainNames, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatFullPageCSV:
		if err := export.FullPageCSV(outPath, exprs, domainNames, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatNodeCSV:
		if err := export.NodeCSV(outPath, exprs, domainNames, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatMediaCSV:
		mediaByExpr, err := s.mediaIndex(ctx, exprs)
		if err != nil {
			return false, nil, err
		}
		if err := export.MediaCSV(outPath, exprs, mediaByExpr, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatNodeLinkCSV:
		links, err := s.Store.ListLinks(ctx, l.ID)
		if err != nil {
			return false, nil, err
		}
		base := outPath[:len(outPath)-len(".csv")]
		nl, err := export.NodeLinkCSV(base, exprs, links, params.MinRelevance)
		if err != nil {
			return false, nil, err
		}
		return true, []string{nl.Nodes, nl.Edges}, nil

	case export.FormatPageGEXF:
		links, err := s.Store.ListLinks(ctx, l.ID)
		if err != nil {
			return false, nil, err
		}
		if err := export.PageGEXF(outPath, exprs, links, domainNames, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatNodeGEXF:
		links, err := s.Store.ListLinks(ctx, l.ID)
		if err != nil {
			return false, nil, err
		}
		if err := export.NodeGEXF(outPath, exprs, links, domainNames, params.MinRelevance); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatCorpus:
		base := outPath[:len(outPath)-len(".zip")]
		qualifying := make([]core.Expression, 0, len(exprs))
		for _, e := range exprs {
			if e.Relevance >= params.MinRelevance {
				qualifying = append(qualifying, e)
			}
		}
		manifest, err := export.Corpus(base, l.Name, qualifying, func(e core.Expression) string { return e.Readable }, params.BatchSize, now)
		if err != nil {
			return false, nil, err
		}
		paths := make([]string, 0, len(manifest.Archives)+1)
		for _, a := range manifest.Archives {
			paths = append(paths, a.Archive)
		}
		paths = append(paths, base+"_manifest.json")
		return true, paths, nil

	case export.FormatPseudolinks, export.FormatPseudolinksPage, export.FormatPseudolinksDom:
		return s.exportPseudolinks(ctx, l, exprs, domainNames, params, outPath)

	default:
		return false, nil, nil
	}
}

func (s *Service) exportPseudolinks(ctx context.Context, l core.Land, exprs []core.Expression, domainNames map[int64]string, params ExportParams, outPath string) (bool, []string, error) {
	sims, err := s.Store.ListSimilarities(ctx, l.ID, core.SimilarityCosine, params.MinRelevance)
	if err != nil {
		return false, nil, err
	}
	lshSims, err := s.Store.ListSimilarities(ctx, l.ID, core.SimilarityCosineLSH, params.MinRelevance)
	if err != nil {
		return false, nil, err
	}
	sims = append(sims, lshSims...)

	switch params.Backend {
	case export.FormatPseudolinks:
		if err := export.PseudolinksCSV(outPath, sims); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	case export.FormatPseudolinksPage:
		exprOfParagraph, err := s.paragraphExpressionIndex(ctx, l.ID)
		if err != nil {
			return false, nil, err
		}
		if err := export.PseudolinksPageCSV(outPath, sims, exprOfParagraph); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil

	default: // FormatPseudolinksDom
		exprOfParagraph, err := s.paragraphExpressionIndex(ctx, l.ID)
		if err != nil {
			return false, nil, err
		}
		domainOfExpr := make(map[int64]int64, len(exprs))
		for _, e := range exprs {
			domainOfExpr[e.ID] = e.DomainID
		}
		if err := export.PseudolinksDomainCSV(outPath, sims, exprOfParagraph, domainOfExpr); err != nil {
			return false, nil, err
		}
		return true, []string{outPath}, nil
	}
}

func (s *Service) domainNameIndex(ctx context.Context, exprs []core.Expression) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, e := range exprs {
		if _, ok := out[e.DomainID]; ok {
			continue
		}
		dom, err := s.Store.GetDomain(ctx, e.DomainID)
		if err != nil {
			return nil, err
		}
		out[e.DomainID] = dom.Name
	}
	return out, nil
}

func (s *Service) mediaIndex(ctx context.Context, exprs []core.Expression) (map[int64][]core.Media, error) {
	out := make(map[int64][]core.Media, len(exprs))
	for _, e := range exprs {
		media, err := s.Store.ListMedia(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if len(media) > 0 {
			out[e.ID] = media
		}
	}
	return out, nil
}

// paragraphExpressionIndex maps every paragraph id in the land to its
// owning expression id, the join pseudolinks aggregation needs to roll
// paragraph-level similarities up to the expression and domain levels.
func (s *Service) paragraphExpressionIndex(ctx context.Context, landID int64) (map[int64]int64, error) {
	paragraphs, err := s.Store.ListParagraphs(ctx, landID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(paragraphs))
	for _, p := range paragraphs {
		out[p.ID] = p.ExpressionID
	}
	return out, nil
}
