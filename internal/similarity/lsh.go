package similarity

import (
	"math/rand"
	"sort"

	"mwi/internal/core"
)

// LSHOptions configures a cosine-LSH run.
type LSHOptions struct {
	Bits     int   // K random hyperplanes -> K-bit bucket signature; K=0 degenerates to one bucket (exact cosine on all pairs); K<0 is unset and defaults to 20
	TopK     int   // neighbors kept per paragraph
	MaxPairs int   // 0 = unbounded; caps total emitted rows as a safety valve
	Seed     int64 // seeded by land id for reproducibility across runs
}

// CosineLSH buckets items by a K-bit random-hyperplane signature, then
// runs exact cosine only within each bucket (far cheaper than the full
// O(n²) comparison), keeping each paragraph's top-K neighbors. Per the
// resolved Open Question, it emits exactly one row per ordered
// (source, neighbor) pair — each paragraph's own top-k list, not the
// symmetric closure ExactCosine produces. K=0 is the spec's explicit
// degenerate case: zero hyperplanes means every item hashes into the
// same bucket, so the bucket pass reduces to exact cosine on all pairs.
func CosineLSH(items []Item, opts LSHOptions) []core.ParagraphSimilarity {
	if len(items) == 0 {
		return nil
	}
	if opts.Bits < 0 {
		opts.Bits = 20
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	buckets := make(map[uint64][]Item)
	if opts.Bits == 0 {
		buckets[0] = items
	} else {
		dim := len(items[0].Vector)
		planes := randomHyperplanes(opts.Seed, opts.Bits, dim)
		for _, it := range items {
			sig := signature(it.Vector, planes)
			buckets[sig] = append(buckets[sig], it)
		}
	}

	var out []core.ParagraphSimilarity
	for _, bucket := range buckets {
		if len(bucket) < 2 {
			continue
		}
		perSource := make(map[int64][]core.ParagraphSimilarity)
		for i := 0; i < len(bucket); i++ {
			for j := 0; j < len(bucket); j++ {
				if i == j {
					continue
				}
				score := cosine(bucket[i].Vector, bucket[j].Vector)
				perSource[bucket[i].ParagraphID] = append(perSource[bucket[i].ParagraphID], core.ParagraphSimilarity{
					SourceParagraphID: bucket[i].ParagraphID,
					TargetParagraphID: bucket[j].ParagraphID,
					Score:             score,
					Method:            core.SimilarityCosineLSH,
				})
			}
		}
		for _, candidates := range perSource {
			out = append(out, topKForSource(candidates, opts.TopK)...)
		}
	}

	// order by (source, target) so the output, and what MaxPairs keeps,
	// does not depend on map iteration order
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceParagraphID != out[j].SourceParagraphID {
			return out[i].SourceParagraphID < out[j].SourceParagraphID
		}
		return out[i].TargetParagraphID < out[j].TargetParagraphID
	})
	if opts.MaxPairs > 0 && len(out) > opts.MaxPairs {
		out = out[:opts.MaxPairs]
	}
	return out
}

// randomHyperplanes generates bits random unit vectors in R^dim, seeded
// deterministically so the same land always produces the same bucket
// assignment across runs.
func randomHyperplanes(seed int64, bits, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	planes := make([][]float64, bits)
	for i := range planes {
		v := make([]float64, dim)
		for j := range v {
			v[j] = rng.NormFloat64()
		}
		planes[i] = v
	}
	return planes
}

// signature computes the K-bit bucket signature of vec: bit i is 1 if
// vec's dot product with hyperplane i is non-negative.
func signature(vec []float64, planes [][]float64) uint64 {
	var sig uint64
	for i, plane := range planes {
		var dot float64
		for j := range vec {
			if j >= len(plane) {
				break
			}
			dot += vec[j] * plane[j]
		}
		if dot >= 0 {
			sig |= 1 << uint(i)
		}
	}
	return sig
}
