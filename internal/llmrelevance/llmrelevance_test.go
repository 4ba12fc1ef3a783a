package llmrelevance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStubProviderMatchesSubstring(t *testing.T) {
	p := NewStubProvider()
	ok, err := p.IsRelevant(context.Background(), []string{"climate", "ocean"}, "Rising Ocean Levels Threaten Coastal Cities")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStubProviderNoMatch(t *testing.T) {
	p := NewStubProvider()
	ok, err := p.IsRelevant(context.Background(), []string{"climate"}, "A recipe for chocolate cake")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFactoryFallsBackToStubWithoutKey(t *testing.T) {
	f := NewFactory("")
	p := f.Create("openrouter")
	require.Equal(t, "stub-substring-match", p.ModelName())
}
