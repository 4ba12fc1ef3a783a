package readable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

const sampleHTML = `<html><head><title>Page Title</title>
<meta name="description" content="desc text"></head>
<body><nav>menu</nav><article><p>First paragraph.</p><p>Second paragraph.</p></article></body></html>`

func TestGoQueryExtractorExtractsMainContent(t *testing.T) {
	e := NewGoQueryExtractor()
	res, err := e.Extract(context.Background(), []byte(sampleHTML), "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Page Title", res.Title)
	require.Equal(t, "desc text", res.Description)
	require.Contains(t, res.Text, "First paragraph.")
	require.Contains(t, res.Text, "Second paragraph.")
	require.NotContains(t, res.Text, "menu")
}

func TestApplyMergeSmartKeepsExisting(t *testing.T) {
	expr := core.Expression{Title: "existing title"}
	out := ApplyMerge(core.MergeSmart, expr, Result{Title: "new title"})
	require.Equal(t, "existing title", out.Title)
}

func TestApplyMergeOverwriteReplaces(t *testing.T) {
	expr := core.Expression{Title: "existing title"}
	out := ApplyMerge(core.MergeOverwrite, expr, Result{Title: "new title"})
	require.Equal(t, "new title", out.Title)
}

func TestApplyMergeMercuryPriorityPrefersExtractorTitle(t *testing.T) {
	expr := core.Expression{Title: "existing title", Readable: "short"}
	out := ApplyMerge(core.MergeMercury, expr, Result{Title: "new title", Text: "short"})
	require.Equal(t, "new title", out.Title)
}

func TestApplyMergeMercuryPriorityKeepsLongerReadable(t *testing.T) {
	expr := core.Expression{Readable: "a much longer existing readable body of text"}
	out := ApplyMerge(core.MergeMercury, expr, Result{Text: "short"})
	require.Equal(t, expr.Readable, out.Readable)
}

func TestApplyMergeMercuryPriorityReplacesShorterReadable(t *testing.T) {
	expr := core.Expression{Readable: "short"}
	out := ApplyMerge(core.MergeMercury, expr, Result{Text: "a much longer extracted readable body"})
	require.Equal(t, "a much longer extracted readable body", out.Readable)
}

func TestExtractorFactoryFallsBackToGoQuery(t *testing.T) {
	f := NewExtractorFactory()
	require.Equal(t, "goquery", f.Create("unknown").Name())
}
