package llmrelevance

import (
	"context"
	"strings"
)

// StubProvider is a deterministic relevance gate: an expression is
// relevant if any land term (case-insensitive) appears as a substring
// of the expression text. It exists so the readable pipeline and its
// tests have a real provider to exercise without network access.
type StubProvider struct{}

// NewStubProvider builds the deterministic stub provider.
func NewStubProvider() *StubProvider { return &StubProvider{} }

func (p *StubProvider) ModelName() string { return "stub-substring-match" }

func (p *StubProvider) IsRelevant(_ context.Context, landTerms []string, expressionText string) (bool, error) {
	text := strings.ToLower(expressionText)
	for _, term := range landTerms {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true, nil
		}
	}
	return false, nil
}
