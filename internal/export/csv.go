package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mwi/internal/core"
)

// PageCSV writes one row per expression above minRelevance: id, url,
// title, description, domain, depth, relevance, http_status,
// fetched_at, readable_at, validllm, validmodel.
func PageCSV(path string, exprs []core.Expression, domainNames map[int64]string, minRelevance int) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "url", "title", "description", "domain", "depth",
		"relevance", "http_status", "fetched_at", "readable_at", "validllm", "validmodel"}); err != nil {
		return err
	}

	for _, e := range filterByRelevance(exprs, minRelevance) {
		if err := w.Write(pageRow(e, domainNames)); err != nil {
			return err
		}
	}
	return w.Error()
}

// FullPageCSV is PageCSV plus raw_html and readable columns.
func FullPageCSV(path string, exprs []core.Expression, domainNames map[int64]string, minRelevance int) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "url", "title", "description", "domain", "depth",
		"relevance", "http_status", "fetched_at", "readable_at", "validllm", "validmodel",
		"raw_html", "readable"}); err != nil {
		return err
	}

	for _, e := range filterByRelevance(exprs, minRelevance) {
		row := append(pageRow(e, domainNames), e.RawHTML, e.Readable)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func pageRow(e core.Expression, domainNames map[int64]string) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.URL,
		e.Title,
		e.Description,
		domainNames[e.DomainID],
		strconv.Itoa(e.Depth),
		strconv.Itoa(e.Relevance),
		e.HTTPStatus,
		formatTimePtr(e.FetchedAt),
		formatTimePtr(e.ReadableAt),
		string(e.ValidLLM),
		e.ValidModel,
	}
}

// NodeCSV writes one row per domain referenced by qualifying
// expressions, with the count of qualifying expressions in that domain.
func NodeCSV(path string, exprs []core.Expression, domainNames map[int64]string, minRelevance int) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"domain_id", "domain", "expression_count"}); err != nil {
		return err
	}

	counts := make(map[int64]int)
	for _, e := range filterByRelevance(exprs, minRelevance) {
		counts[e.DomainID]++
	}

	for id, count := range counts {
		if err := w.Write([]string{strconv.FormatInt(id, 10), domainNames[id], strconv.Itoa(count)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// MediaCSV writes one row per media item attached to a qualifying
// expression.
func MediaCSV(path string, exprs []core.Expression, mediaByExpr map[int64][]core.Media, minRelevance int) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "expression_id", "type", "url", "width", "height", "format"}); err != nil {
		return err
	}

	for _, e := range filterByRelevance(exprs, minRelevance) {
		for _, m := range mediaByExpr[e.ID] {
			row := []string{
				strconv.FormatInt(m.ID, 10),
				strconv.FormatInt(m.ExpressionID, 10),
				string(m.Type),
				m.URL,
				strconv.Itoa(m.Width),
				strconv.Itoa(m.Height),
				m.Format,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// NodeLinkPaths is the pair of files NodeLinkCSV writes.
type NodeLinkPaths struct {
	Nodes string
	Edges string
}

// NodeLinkCSV writes a nodes CSV (qualifying expressions) and an edges
// CSV (ExpressionLinks filtered to qualifying endpoints on both ends).
func NodeLinkCSV(basePath string, exprs []core.Expression, links []core.ExpressionLink, minRelevance int) (NodeLinkPaths, error) {
	qualifying := filterByRelevance(exprs, minRelevance)
	qualifyingIDs := make(map[int64]bool, len(qualifying))
	for _, e := range qualifying {
		qualifyingIDs[e.ID] = true
	}

	paths := NodeLinkPaths{
		Nodes: basePath + "_nodes.csv",
		Edges: basePath + "_edges.csv",
	}

	if err := ensureDir(filepath.Dir(paths.Nodes)); err != nil {
		return paths, err
	}

	nodesFile, err := os.Create(paths.Nodes)
	if err != nil {
		return paths, err
	}
	defer nodesFile.Close()
	nw := csv.NewWriter(nodesFile)
	if err := nw.Write([]string{"id", "url", "title", "relevance"}); err != nil {
		return paths, err
	}
	for _, e := range qualifying {
		if err := nw.Write([]string{strconv.FormatInt(e.ID, 10), e.URL, e.Title, strconv.Itoa(e.Relevance)}); err != nil {
			return paths, err
		}
	}
	nw.Flush()
	if err := nw.Error(); err != nil {
		return paths, err
	}

	edgesFile, err := os.Create(paths.Edges)
	if err != nil {
		return paths, err
	}
	defer edgesFile.Close()
	ew := csv.NewWriter(edgesFile)
	if err := ew.Write([]string{"source_id", "target_id"}); err != nil {
		return paths, err
	}
	for _, l := range links {
		if !qualifyingIDs[l.SourceID] || !qualifyingIDs[l.TargetID] {
			continue
		}
		if err := ew.Write([]string{strconv.FormatInt(l.SourceID, 10), strconv.FormatInt(l.TargetID, 10)}); err != nil {
			return paths, err
		}
	}
	ew.Flush()
	return paths, ew.Error()
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
