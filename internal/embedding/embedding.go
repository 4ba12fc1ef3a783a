// Package embedding implements C5: paragraph extraction from readable
// text, a pluggable EmbeddingProvider, a deterministic fake provider,
// and a real genai-backed provider. The provider shape (batched text
// in, []float64 vectors out, a fixed dimension) is generalized from the
// teacher's llm.Client.GenerateEmbedding, which called Gemini's
// gemini-embedding-001 model with a Matryoshka-truncated output
// dimension.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"mwi/internal/core"
)

// Provider is spec.md §6's EmbeddingProvider.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
	ModelName() string
}

var blankLines = regexp.MustCompile(`\n\s*\n+`)
var whitespace = regexp.MustCompile(`\s+`)

// SplitParagraphs splits readable text into paragraphs on blank lines,
// collapses interior whitespace, and drops anything shorter than
// minChars — the minimum-length filter (W) spec.md §4.5 requires so
// embeddings aren't generated for stray fragments.
func SplitParagraphs(text string, minChars int) []string {
	if text == "" {
		return nil
	}
	raw := blankLines.Split(text, -1)

	var out []string
	for _, p := range raw {
		p = strings.TrimSpace(whitespace.ReplaceAllString(p, " "))
		if len(p) < minChars {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TextHash returns the SHA-256 hex digest of text, the content-address
// used to dedupe identical paragraphs across expressions.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// BuildParagraphs extracts the paragraphs of an expression's readable
// text, in document order.
func BuildParagraphs(expressionID int64, readableText string, minChars int) []core.Paragraph {
	chunks := SplitParagraphs(readableText, minChars)
	out := make([]core.Paragraph, 0, len(chunks))
	for i, c := range chunks {
		out = append(out, core.Paragraph{
			ExpressionID: expressionID,
			Text:         c,
			TextHash:     TextHash(c),
			Position:     i,
		})
	}
	return out
}

// ErrModelMismatch is returned when a batch is requested against a
// store that already holds embeddings from a different model —
// callers must Reset before switching models.
type ErrModelMismatch struct {
	Stored, Requested string
}

func (e *ErrModelMismatch) Error() string {
	return "embedding model mismatch: stored=" + e.Stored + " requested=" + e.Requested
}
