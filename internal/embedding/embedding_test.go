package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitParagraphsFiltersShortAndCollapsesWhitespace(t *testing.T) {
	text := "This is a long enough paragraph to survive the minimum length filter.\n\nshort\n\nAnother   paragraph   with\nextra   whitespace that is long enough."
	paras := SplitParagraphs(text, 40)
	require.Len(t, paras, 2)
	require.NotContains(t, paras[1], "  ")
}

func TestTextHashStable(t *testing.T) {
	require.Equal(t, TextHash("hello"), TextHash("hello"))
	require.NotEqual(t, TextHash("hello"), TextHash("world"))
}

func TestBuildParagraphsOrdersByPosition(t *testing.T) {
	text := "First paragraph is long enough to pass the filter threshold.\n\nSecond paragraph is also long enough to pass the filter."
	paras := BuildParagraphs(42, text, 20)
	require.Len(t, paras, 2)
	require.Equal(t, 0, paras[0].Position)
	require.Equal(t, 1, paras[1].Position)
	require.Equal(t, int64(42), paras[0].ExpressionID)
}

func TestFakeProviderIsDeterministicAndNormalized(t *testing.T) {
	p := NewFakeProvider(32)
	vecs, err := p.Embed(context.Background(), []string{"alpha", "alpha", "beta"})
	require.NoError(t, err)
	require.Equal(t, vecs[0], vecs[1])
	require.NotEqual(t, vecs[0], vecs[2])

	var sumSq float64
	for _, x := range vecs[0] {
		sumSq += x * x
	}
	require.InDelta(t, 1.0, sumSq, 1e-9)
}
