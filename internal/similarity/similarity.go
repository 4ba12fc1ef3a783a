// Package similarity implements C6: an exact O(n²) cosine engine and a
// cosine-LSH approximate engine. Both operate over a fixed set of
// (paragraph id, vector) pairs already fetched from the store.
//
// The vector-math style — plain []float64 slices, manual dot-product
// loops, math.Sqrt-based norms — generalizes the teacher's
// clustering package's from-scratch numeric routines (k-means
// centroids, silhouette scores) to pairwise cosine similarity instead
// of cluster assignment.
package similarity

import (
	"math"
	"sort"

	"mwi/internal/core"
)

// Item is one paragraph's embedding, the input unit for both engines.
type Item struct {
	ParagraphID int64
	Vector      []float64
}

// cosine returns the cosine similarity of a and b, 0 if either is a
// zero vector or they differ in length.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ExactCosine computes every pairwise cosine similarity above
// threshold and emits a row for BOTH directions (source->target and
// target->source) per the engine's symmetry convention — a pair's
// similarity is a single number, but callers always query "neighbors
// of paragraph X" as a one-directional lookup, so both directions are
// materialized.
func ExactCosine(items []Item, threshold float64) []core.ParagraphSimilarity {
	var out []core.ParagraphSimilarity
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			score := cosine(items[i].Vector, items[j].Vector)
			if score < threshold {
				continue
			}
			out = append(out,
				core.ParagraphSimilarity{
					SourceParagraphID: items[i].ParagraphID,
					TargetParagraphID: items[j].ParagraphID,
					Score:             score,
					Method:            core.SimilarityCosine,
				},
				core.ParagraphSimilarity{
					SourceParagraphID: items[j].ParagraphID,
					TargetParagraphID: items[i].ParagraphID,
					Score:             score,
					Method:            core.SimilarityCosine,
				},
			)
		}
	}
	return out
}

// topKForSource truncates candidates to the topK highest-scoring
// entries, breaking ties by the lower target paragraph id — the
// resolved Open Question on LSH tie-breaking.
func topKForSource(candidates []core.ParagraphSimilarity, topK int) []core.ParagraphSimilarity {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].TargetParagraphID < candidates[j].TargetParagraphID
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}
