package llmrelevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mwi/internal/core"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterProvider classifies relevance with a single yes/no
// completion call against OpenRouter's chat-completions endpoint. No
// OpenRouter SDK exists anywhere in this engine's dependency corpus, so
// this is a thin net/http JSON client rather than a fabricated module.
type OpenRouterProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenRouterProvider builds a provider for model (defaults to a
// small instruction-tuned model when model is empty).
func NewOpenRouterProvider(apiKey, model string) *OpenRouterProvider {
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &OpenRouterProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *OpenRouterProvider) ModelName() string { return p.model }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// IsRelevant asks the model whether expressionText is about the given
// land terms, expecting a response beginning with "oui" or "non" — the
// same two-token vocabulary spec.md's validllm field stores.
func (p *OpenRouterProvider) IsRelevant(ctx context.Context, landTerms []string, expressionText string) (bool, error) {
	prompt := fmt.Sprintf(
		"Terms: %s\n\nText:\n%s\n\nIs this text relevant to the terms above? Reply with exactly one word, \"oui\" or \"non\".",
		strings.Join(landTerms, ", "), truncate(expressionText, 4000))

	reqBody, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindInvalidInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(reqBody))
	if err != nil {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindProviderError, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindProviderError, fmt.Errorf("openrouter status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindProviderError, err)
	}
	if len(parsed.Choices) == 0 {
		return false, core.NewError("llmrelevance.IsRelevant", core.KindProviderError, fmt.Errorf("empty openrouter response"))
	}

	answer := strings.ToLower(strings.TrimSpace(parsed.Choices[0].Message.Content))
	return strings.HasPrefix(answer, "oui"), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
