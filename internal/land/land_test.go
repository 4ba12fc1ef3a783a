package land

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mwi/internal/config"
	"mwi/internal/core"
	"mwi/internal/embedding"
	"mwi/internal/export"
	"mwi/internal/readable"
	"mwi/internal/seorank"
	"mwi/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "mwi.db")
	st, err := store.Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	return NewService(st, cfg, readable.NewGoQueryExtractor(), alwaysIrrelevant{}, embedding.NewFakeProvider(32), seorank.NewFactory("").Create())
}

type alwaysIrrelevant struct{}

func (alwaysIrrelevant) ModelName() string { return "stub-always-non" }
func (alwaysIrrelevant) IsRelevant(_ context.Context, _ []string, _ string) (bool, error) {
	return false, nil
}

// Scenario 1: create + seed.
func TestScenarioCreateAndSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	ok, l, err := s.Create(ctx, "acme", "", []string{"fr"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, processed, errs, err := s.AddTerm(ctx, "acme", []string{"test", "keyword", "research"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, processed)
	require.Equal(t, 0, errs)

	ok, processed, errs, err = s.AddURL(ctx, "acme", []string{"https://example.com/a", "https://example.com/b"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, processed)
	require.Equal(t, 0, errs)

	exprs, err := s.Store.ListExpressions(ctx, l.ID, -1)
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	require.Equal(t, exprs[0].DomainID, exprs[1].DomainID) // one Domain row shared

	terms, err := s.Store.DictionaryTerms(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, terms, 3)

	for _, e := range exprs {
		require.Equal(t, 0, e.Depth)
	}
}

// Scenario 2: crawl limit.
func TestScenarioCrawlLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>T</title></head><body></body></html>`))
	}))
	defer srv.Close()

	_, l, err := s.Create(ctx, "crawlland", "", []string{"en"})
	require.NoError(t, err)

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	_, _, _, err = s.AddURL(ctx, "crawlland", urls)
	require.NoError(t, err)

	ok, processed, _, err := s.Crawl(ctx, "crawlland", CrawlParams{Limit: 2, Depth: -1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, processed)

	exprs, err := s.Store.ListExpressions(ctx, l.ID, -1)
	require.NoError(t, err)
	fetchedCount := 0
	for _, e := range exprs {
		if e.FetchedAt != nil {
			fetchedCount++
		}
	}
	require.Equal(t, 2, fetchedCount)
}

// crawl_land with limit=0 processes nothing.
func TestCrawlLimitZeroProcessesNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, _, err := s.Create(ctx, "zeroland", "", []string{"en"})
	require.NoError(t, err)
	_, _, _, err = s.AddURL(ctx, "zeroland", []string{"https://example.com/a"})
	require.NoError(t, err)

	ok, processed, errs, err := s.Crawl(ctx, "zeroland", CrawlParams{Limit: 0, Depth: -1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, processed)
	require.Equal(t, 0, errs)
}

// Scenario 3: relevance scoring.
func TestScenarioRelevanceScoring(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, l, err := s.Create(ctx, "relland", "", []string{"en"})
	require.NoError(t, err)
	_, _, _, err = s.AddTerm(ctx, "relland", []string{"test", "keyword"})
	require.NoError(t, err)

	dom, err := s.Store.GetOrCreateDomain(ctx, "example.com")
	require.NoError(t, err)

	e1, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, "https://example.com/1", 0)
	require.NoError(t, err)
	readable1 := strings.Repeat("test and keyword ", 50)
	require.NoError(t, s.Store.UpdateFetchResult(ctx, e1.ID, "200", "<html></html>", "Test Keyword Article", ""))
	require.NoError(t, s.Store.UpdateReadable(ctx, e1.ID, readable1))

	e2, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, "https://example.com/2", 0)
	require.NoError(t, err)
	readable2 := strings.Repeat("unrelated ", 50)
	require.NoError(t, s.Store.UpdateFetchResult(ctx, e2.ID, "200", "<html></html>", "Unrelated", ""))
	require.NoError(t, s.Store.UpdateReadable(ctx, e2.ID, readable2))

	ok, processed, errs, err := s.Consolidate(ctx, "relland", ConsolidateParams{Depth: -1, MinRelevance: -1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, processed)
	require.Equal(t, 0, errs)

	got1, err := s.Store.GetExpression(ctx, e1.ID)
	require.NoError(t, err)
	got2, err := s.Store.GetExpression(ctx, e2.ID)
	require.NoError(t, err)

	require.Greater(t, got1.Relevance, got2.Relevance)
}

// Scenario 4: LLM "non" clamps relevance to zero.
func TestScenarioLLMNonClampsRelevance(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t) // s.LLM is alwaysIrrelevant{}

	_, l, err := s.Create(ctx, "llmland", "", []string{"en"})
	require.NoError(t, err)
	dom, err := s.Store.GetOrCreateDomain(ctx, "example.com")
	require.NoError(t, err)

	e, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, "https://example.com/1", 0)
	require.NoError(t, err)
	longHTML := "<html><body>" + strings.Repeat("content ", 60) + "</body></html>"
	require.NoError(t, s.Store.UpdateFetchResult(ctx, e.ID, "200", longHTML, "", ""))
	require.NoError(t, s.Store.UpdateRelevance(ctx, e.ID, 5))

	ok, processed, errs, err := s.RunReadablePipeline(ctx, "llmland", ReadablePipelineParams{LLMEnabled: true})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, processed)
	require.Equal(t, 0, errs)

	got, err := s.Store.GetExpression(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, core.ValidLLMNon, got.ValidLLM)
	require.Equal(t, "stub-always-non", got.ValidModel)
	require.Equal(t, 0, got.Relevance)
}

// Scenario 5: LSH top-k bounds neighbors per source paragraph.
func TestScenarioLSHTopK(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, l, err := s.Create(ctx, "lshland", "", []string{"en"})
	require.NoError(t, err)
	dom, err := s.Store.GetOrCreateDomain(ctx, "example.com")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		e, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, exampleURL(i), 0)
		require.NoError(t, err)
		text := strings.Repeat("distinct paragraph content number "+string(rune('a'+i))+" ", 6)
		require.NoError(t, s.Store.UpdateFetchResult(ctx, e.ID, "200", "<html></html>", "", ""))
		require.NoError(t, s.Store.UpdateReadable(ctx, e.ID, text))
	}

	ok, processed, errs, err := s.ExtractParagraphs(ctx, "lshland")
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, processed, 0)
	require.Equal(t, 0, errs)

	ok, processed, errs, err = s.GenerateEmbeddings(ctx, "lshland")
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, processed, 0)
	require.Equal(t, 0, errs)

	ok, _, _, err = s.RunSimilarity(ctx, "lshland", SimilarityParams{
		Method: core.MethodCosineLSH, TopK: 2, LSHBits: 20, MinRelevance: -1,
	})
	require.NoError(t, err)
	require.True(t, ok)

	sims, err := s.Store.ListSimilarities(ctx, l.ID, core.SimilarityCosineLSH, -1)
	require.NoError(t, err)

	counts := make(map[int64]int)
	for _, sim := range sims {
		require.Equal(t, core.SimilarityCosineLSH, sim.Method)
		counts[sim.SourceParagraphID]++
	}
	for _, c := range counts {
		require.LessOrEqual(t, c, 2)
	}
}

// Scenario 6: corpus export batching.
func TestScenarioCorpusBatching(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, _, err := s.Create(ctx, "corpusland", "", []string{"en"})
	require.NoError(t, err)
	dom, err := s.Store.GetOrCreateDomain(ctx, "example.com")
	require.NoError(t, err)
	l, err := s.Store.GetLandByName(ctx, "corpusland")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		e, err := s.Store.CreateExpression(ctx, l.ID, dom.ID, exampleURL(i), 0)
		require.NoError(t, err)
		require.NoError(t, s.Store.UpdateReadable(ctx, e.ID, "readable text for entry"))
	}

	ok, paths, err := s.Export(ctx, "corpusland", ExportParams{Backend: export.FormatCorpus, MinRelevance: -1, BatchSize: 5}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, ok)
	// 4 archives + 1 manifest
	require.Len(t, paths, 5)
}

func exampleURL(i int) string {
	return "https://example.com/page" + string(rune('a'+i))
}
