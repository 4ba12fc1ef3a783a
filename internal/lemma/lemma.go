// Package lemma implements C2, the dictionary and scorer: a
// rule-based lemmatizer keyed by language code, and a weighted
// relevance scorer over a land's dictionary terms. Both are
// generalized from the teacher's keyword_scorer.go, which scored raw
// keyword matches across weighted fields (title/content/etc) — here
// the same weighted-field approach scores lemma-form matches instead
// of literal substrings, so "marches" and "marchait" both reduce to
// "march" and match each other.
package lemma

import "strings"

// Lemmatize reduces term to its lemma form for lang ("fr", "en"). Any
// other code (including "") falls through to a lowercase passthrough —
// the spec only requires lemmatization against a land's primary
// language, never multi-language normalization.
func Lemmatize(lang, term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return term
	}
	switch lang {
	case "fr":
		return lemmatizeFR(term)
	case "en":
		return lemmatizeEN(term)
	default:
		return term
	}
}

// frSuffixes is tried longest-first so "-issement" strips before the
// shorter "-ment" would otherwise match a prefix of it.
var frSuffixes = []string{
	"issements", "issement", "ations", "ation", "ement", "ements",
	"eaux", "aux", "euses", "euse", "ifs", "ives", "ive", "if",
	"aient", "ait", "ais", "iez", "ons", "ez",
	"ées", "ée", "és", "é", "es", "s",
}

func lemmatizeFR(term string) string {
	if len([]rune(term)) <= 3 {
		return term
	}
	for _, suf := range frSuffixes {
		if strings.HasSuffix(term, suf) && len(term)-len(suf) >= 3 {
			return term[:len(term)-len(suf)]
		}
	}
	return term
}

// enSuffixes mirrors the French list's longest-first ordering for the
// same reason: "-ies" must be tried before "-s".
var enSuffixes = []string{
	"ational", "ization", "ingly", "edly", "ies", "ied", "ing",
	"er", "ed", "es", "s", "e",
}

func lemmatizeEN(term string) string {
	if len([]rune(term)) <= 3 {
		return term
	}
	for _, suf := range enSuffixes {
		if strings.HasSuffix(term, suf) && len(term)-len(suf) >= 3 {
			stem := term[:len(term)-len(suf)]
			if suf == "ies" {
				return stem + "y"
			}
			return stem
		}
	}
	return term
}
