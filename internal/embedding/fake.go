package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// FakeProvider deterministically derives a unit vector from the
// SHA-256 hash of each input text, so tests and offline runs get
// stable, reproducible "embeddings" without any network dependency.
// Texts that are character-for-character identical always embed to
// the same vector; no similarity claim beyond that is intended.
type FakeProvider struct {
	dim int
}

// NewFakeProvider builds a fake provider producing vectors of the
// given dimension (defaults to 64 if dim <= 0).
func NewFakeProvider(dim int) *FakeProvider {
	if dim <= 0 {
		dim = 64
	}
	return &FakeProvider{dim: dim}
}

func (f *FakeProvider) Dimension() int    { return f.dim }
func (f *FakeProvider) ModelName() string { return "fake-sha256" }

func (f *FakeProvider) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *FakeProvider) vectorFor(text string) []float64 {
	vec := make([]float64, f.dim)
	seed := []byte(text)
	block := 0

	for i := 0; i < f.dim; i++ {
		if i%8 == 0 {
			h := sha256.Sum256(append(seed, byte(block)))
			seed = h[:]
			block++
		}
		offset := (i % 8) * 4
		if offset+4 > len(seed) {
			offset = 0
		}
		bits := binary.LittleEndian.Uint32(seed[offset : offset+4])
		// map to [-1, 1]
		vec[i] = float64(bits)/float64(1<<31) - 1
	}

	return normalize(vec)
}

func normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
