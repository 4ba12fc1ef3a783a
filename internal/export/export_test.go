package export

import (
	"archive/zip"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func sampleExpressions() []core.Expression {
	return []core.Expression{
		{ID: 1, DomainID: 10, URL: "https://a.com/1", Title: "A1", Relevance: 5},
		{ID: 2, DomainID: 10, URL: "https://a.com/2", Title: "A2", Relevance: 0},
		{ID: 3, DomainID: 20, URL: "https://b.com/1", Title: "B1", Relevance: 3},
	}
}

func TestPageCSVFiltersByRelevance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.csv")
	domains := map[int64]string{10: "a.com", 20: "b.com"}

	require.NoError(t, PageCSV(path, sampleExpressions(), domains, 1))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 qualifying rows
}

func TestPseudolinksCSVHeaderOnlyWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pl.csv")
	require.NoError(t, PseudolinksCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestPseudolinksPageCSVAggregates(t *testing.T) {
	sims := []core.ParagraphSimilarity{
		{SourceParagraphID: 1, TargetParagraphID: 2, Score: 0.8},
		{SourceParagraphID: 1, TargetParagraphID: 3, Score: 0.6},
	}
	exprOfParagraph := map[int64]int64{1: 100, 2: 200, 3: 200}

	dir := t.TempDir()
	path := filepath.Join(dir, "pp.csv")
	require.NoError(t, PseudolinksPageCSV(path, sims, exprOfParagraph))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one (100,200) aggregate row
	require.Equal(t, "2", rows[1][2])
}

func TestPageGEXFWritesValidXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.gexf")
	links := []core.ExpressionLink{{SourceID: 1, TargetID: 3}}
	domains := map[int64]string{10: "a.com", 20: "b.com"}

	require.NoError(t, PageGEXF(path, sampleExpressions(), links, domains, 1))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	xmlStr := string(content)
	require.Contains(t, xmlStr, "gexf")
	require.Contains(t, xmlStr, `<attributes class="node">`)
	require.Contains(t, xmlStr, `title="domain"`)
	require.Contains(t, xmlStr, `title="relevance"`)
	require.Contains(t, xmlStr, `value="a.com"`)
}

func TestNodeGEXFWritesAttributeBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.gexf")
	links := []core.ExpressionLink{{SourceID: 1, TargetID: 3}}
	domains := map[int64]string{10: "a.com", 20: "b.com"}

	require.NoError(t, NodeGEXF(path, sampleExpressions(), links, domains, 1))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	xmlStr := string(content)
	require.Contains(t, xmlStr, `<attributes class="node">`)
	require.Contains(t, xmlStr, `title="expression_count"`)
}

func TestCorpusBatchesAndWritesManifest(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "corpus")

	exprs := []core.Expression{{ID: 1}, {ID: 2}, {ID: 3}}
	manifest, err := Corpus(base, "testland", exprs, func(e core.Expression) string {
		return "readable text for " + string(rune('0'+e.ID))
	}, 2, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, manifest.Archives, 2) // batch of 2, then batch of 1

	firstArchive := filepath.Join(dir, manifest.Archives[0].Archive)
	zr, err := zip.OpenReader(firstArchive)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)

	_, err = os.Stat(base + "_manifest.json")
	require.NoError(t, err)
}

func TestOutputPathSanitizesLandName(t *testing.T) {
	path := OutputPath("/tmp", "my land/01", FormatPageCSV, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Contains(t, path, "export_land_my_land_01_pagecsv_")
	require.Contains(t, path, ".csv")
}
