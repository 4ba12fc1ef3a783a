package lemma

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func TestLemmatizeFR(t *testing.T) {
	cases := map[string]string{
		"marchait":   "march",
		"marches":    "march",
		"chats":      "chat",
		"rapidement": "rapid",
	}
	for in, want := range cases {
		require.Equal(t, want, Lemmatize("fr", in), in)
	}
}

func TestLemmatizeEN(t *testing.T) {
	cases := map[string]string{
		"running":  "runn",
		"walked":   "walk",
		"cities":   "city",
		"flowers":  "flower",
	}
	for in, want := range cases {
		require.Equal(t, want, Lemmatize("en", in), in)
	}
}

func TestLemmatizeUnknownLangPassthrough(t *testing.T) {
	require.Equal(t, "running", Lemmatize("de", "Running"))
}

func TestScoreWeightsFields(t *testing.T) {
	weights := Weights{Title: 10, Description: 3, Readable: 1}
	score := Score("en", []string{"climate"}, "Climate change", "about climates", "the climate shifted", weights, core.ValidLLMUnset)
	require.Equal(t, 10+3+1, score)
}

func TestScoreClampedByLLMNon(t *testing.T) {
	weights := Weights{Title: 10, Description: 3, Readable: 1}
	score := Score("en", []string{"climate"}, "Climate change", "", "", weights, core.ValidLLMNon)
	require.Equal(t, 0, score)
}

func TestScoreUnaffectedByLLMOui(t *testing.T) {
	weights := Weights{Title: 10, Description: 3, Readable: 1}
	score := Score("en", []string{"climate"}, "Climate change", "", "", weights, core.ValidLLMOui)
	require.Equal(t, 10, score)
}
