package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(context.Background(), filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetLand(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, err := s.CreateLand(ctx, "climate", "climate research corpus", []string{"en", "fr"})
	require.NoError(t, err)
	require.NotZero(t, land.ID)
	require.Equal(t, "en", land.PrimaryLang())

	got, err := s.GetLandByName(ctx, "climate")
	require.NoError(t, err)
	require.Equal(t, land.ID, got.ID)
	require.Equal(t, []string{"en", "fr"}, got.Lang)
}

func TestCreateLandDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateLand(ctx, "dup", "", nil)
	require.NoError(t, err)

	_, err = s.CreateLand(ctx, "dup", "", nil)
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindIntegrityViolation))
}

func TestDeleteLandCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, err := s.CreateLand(ctx, "cascade", "", nil)
	require.NoError(t, err)

	domain, err := s.GetOrCreateDomain(ctx, "example.com")
	require.NoError(t, err)

	expr, err := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.com/a", 0)
	require.NoError(t, err)

	_, _, err = s.CreateParagraph(ctx, core.Paragraph{ExpressionID: expr.ID, Text: "hello world", TextHash: "h1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteLand(ctx, land.ID))

	_, err = s.GetExpression(ctx, expr.ID)
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindNotFound))
}

func TestExpressionIdempotentCreate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, _ := s.CreateLand(ctx, "idem", "", nil)
	domain, _ := s.GetOrCreateDomain(ctx, "example.org")

	a, err := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.org/x", 0)
	require.NoError(t, err)
	b, err := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.org/x", 0)
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)
}

func TestParagraphDedupeByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, _ := s.CreateLand(ctx, "dedupe", "", nil)
	domain, _ := s.GetOrCreateDomain(ctx, "example.net")
	e1, _ := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.net/1", 0)
	e2, _ := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.net/2", 0)

	p1, inserted1, err := s.CreateParagraph(ctx, core.Paragraph{ExpressionID: e1.ID, Text: "same text", TextHash: "same-hash"})
	require.NoError(t, err)
	require.True(t, inserted1)

	p2, inserted2, err := s.CreateParagraph(ctx, core.Paragraph{ExpressionID: e2.ID, Text: "same text", TextHash: "same-hash"})
	require.NoError(t, err)
	require.False(t, inserted2)
	require.Equal(t, p1.ID, p2.ID)
}

func TestEmbeddingRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, _ := s.CreateLand(ctx, "embed", "", nil)
	domain, _ := s.GetOrCreateDomain(ctx, "example.com")
	expr, _ := s.CreateExpression(ctx, land.ID, domain.ID, "https://example.com/p", 0)
	para, _, err := s.CreateParagraph(ctx, core.Paragraph{ExpressionID: expr.ID, Text: "vector text", TextHash: "vh1"})
	require.NoError(t, err)

	vec := []float64{0.1, -0.2, 0.3, 0.456789}
	require.NoError(t, s.PutEmbedding(ctx, core.ParagraphEmbedding{ParagraphID: para.ID, Vector: vec, ModelName: "fake", Dimension: len(vec)}))

	require.NoError(t, s.UpdateRelevance(ctx, expr.ID, 5))

	embeds, err := s.ListEmbeddings(ctx, land.ID, 0)
	require.NoError(t, err)
	require.Len(t, embeds, 1)
	require.InDeltaSlice(t, vec, embeds[0].Vector, 1e-12)
}

func TestSetupCancelledByConfirm(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Setup(ctx, func() bool { return false })
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindCancelled))
}
