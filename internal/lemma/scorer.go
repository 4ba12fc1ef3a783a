package lemma

import (
	"strings"

	"mwi/internal/core"
)

// Weights are the per-field multipliers a relevance computation uses,
// mirroring the teacher's ScoringWeights (content/title/authority/...)
// collapsed to the three fields this engine actually stores.
type Weights struct {
	Title       int
	Description int
	Readable    int
}

// Score computes an expression's relevance: for every dictionary term,
// count lemma-form occurrences in title, description and readable
// text, each counted occurrence contributing its field's weight. A
// validllm of "non" clamps the final score to zero regardless of term
// matches — the gate's negative verdict overrides the lexical score.
// A validllm of "oui" has no effect on the numeric score; the LLM gate
// only ever vetoes, it never boosts.
func Score(lang string, terms []string, title, description, readable string, weights Weights, validLLM core.ValidLLM) int {
	if validLLM == core.ValidLLMNon {
		return 0
	}

	lemmaTerms := make([]string, len(terms))
	for i, t := range terms {
		lemmaTerms[i] = Lemmatize(lang, t)
	}

	score := 0
	score += countWeighted(lang, title, lemmaTerms) * weights.Title
	score += countWeighted(lang, description, lemmaTerms) * weights.Description
	score += countWeighted(lang, readable, lemmaTerms) * weights.Readable
	return score
}

// countWeighted lemmatizes every word of text and counts how many of
// them match a dictionary lemma.
func countWeighted(lang, text string, lemmaTerms []string) int {
	if text == "" || len(lemmaTerms) == 0 {
		return 0
	}
	set := make(map[string]bool, len(lemmaTerms))
	for _, t := range lemmaTerms {
		set[t] = true
	}

	count := 0
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?\"'()[]{}«»")
		if word == "" {
			continue
		}
		if set[Lemmatize(lang, word)] {
			count++
		}
	}
	return count
}
