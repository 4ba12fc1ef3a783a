package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func TestExactCosineEmitsBothDirections(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0}},
		{ParagraphID: 2, Vector: []float64{1, 0}},
	}
	sims := ExactCosine(items, 0.5)
	require.Len(t, sims, 2)

	var sawForward, sawBackward bool
	for _, s := range sims {
		require.Equal(t, core.SimilarityCosine, s.Method)
		require.InDelta(t, 1.0, s.Score, 1e-9)
		if s.SourceParagraphID == 1 && s.TargetParagraphID == 2 {
			sawForward = true
		}
		if s.SourceParagraphID == 2 && s.TargetParagraphID == 1 {
			sawBackward = true
		}
	}
	require.True(t, sawForward)
	require.True(t, sawBackward)
}

func TestExactCosineRespectsThreshold(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0}},
		{ParagraphID: 2, Vector: []float64{0, 1}},
	}
	sims := ExactCosine(items, 0.5)
	require.Empty(t, sims)
}

func TestTopKForSourceTieBreaksByLowerID(t *testing.T) {
	candidates := []core.ParagraphSimilarity{
		{SourceParagraphID: 1, TargetParagraphID: 5, Score: 0.9},
		{SourceParagraphID: 1, TargetParagraphID: 3, Score: 0.9},
	}
	ranked := topKForSource(candidates, 1)
	require.Len(t, ranked, 1)
	require.Equal(t, int64(3), ranked[0].TargetParagraphID)
}

func TestCosineLSHDeterministicForSameSeed(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0, 0, 0}},
		{ParagraphID: 2, Vector: []float64{0.99, 0.01, 0, 0}},
		{ParagraphID: 3, Vector: []float64{0, 0, 1, 0}},
	}
	opts := LSHOptions{Bits: 4, TopK: 5, Seed: 42}

	a := CosineLSH(items, opts)
	b := CosineLSH(items, opts)
	require.Equal(t, a, b)
}

func TestCosineLSHEachRowUsesLSHMethod(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0}},
		{ParagraphID: 2, Vector: []float64{0.98, 0.02}},
	}
	sims := CosineLSH(items, LSHOptions{Bits: 2, TopK: 5, Seed: 1})
	for _, s := range sims {
		require.Equal(t, core.SimilarityCosineLSH, s.Method)
	}
}

func TestCosineLSHZeroBitsDegeneratesToOneBucket(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0, 0, 0}},
		{ParagraphID: 2, Vector: []float64{0, 1, 0, 0}},
		{ParagraphID: 3, Vector: []float64{0, 0, 1, 0}},
	}
	sims := CosineLSH(items, LSHOptions{Bits: 0, TopK: 5, Seed: 7})

	// every paragraph is its own bucket-mate of every other, regardless
	// of direction, since a single bucket holds everything
	counts := make(map[int64]int)
	for _, s := range sims {
		require.Equal(t, core.SimilarityCosineLSH, s.Method)
		counts[s.SourceParagraphID]++
	}
	require.Len(t, counts, 3)
	for _, c := range counts {
		require.Equal(t, 2, c) // each source sees the other two paragraphs
	}
}

func TestCosineLSHNegativeBitsDefaultsToTwenty(t *testing.T) {
	items := []Item{
		{ParagraphID: 1, Vector: []float64{1, 0, 0, 0}},
		{ParagraphID: 2, Vector: []float64{0.99, 0.01, 0, 0}},
	}
	withDefault := CosineLSH(items, LSHOptions{Bits: -1, TopK: 5, Seed: 42})
	explicit := CosineLSH(items, LSHOptions{Bits: 20, TopK: 5, Seed: 42})
	require.Equal(t, explicit, withDefault)
}
