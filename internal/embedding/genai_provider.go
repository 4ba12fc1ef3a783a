package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"mwi/internal/core"
)

const (
	defaultModel = "gemini-embedding-001"
	defaultDim   = int32(768)
)

// GenAIProvider calls Google's genai embedding endpoint, following the
// teacher's GenerateEmbedding call shape (a genai.Client, Matryoshka
// output-dimension truncation, float32-to-float64 conversion) batched
// across however many texts a single Embed call receives.
type GenAIProvider struct {
	client *genai.Client
	model  string
	dim    int32
}

// NewGenAIProvider builds a provider against apiKey. model defaults to
// gemini-embedding-001 with a 768-dimension Matryoshka truncation when
// empty/zero.
func NewGenAIProvider(ctx context.Context, apiKey, model string, dim int32) (*GenAIProvider, error) {
	if model == "" {
		model = defaultModel
	}
	if dim == 0 {
		dim = defaultDim
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.NewError("embedding.NewGenAIProvider", core.KindProviderError, err)
	}
	return &GenAIProvider{client: client, model: model, dim: dim}, nil
}

func (p *GenAIProvider) Dimension() int    { return int(p.dim) }
func (p *GenAIProvider) ModelName() string { return p.model }

func (p *GenAIProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	config := &genai.EmbedContentConfig{OutputDimensionality: &p.dim}

	for i, text := range texts {
		contents := []*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
			Role:  "user",
		}}
		resp, err := p.client.Models.EmbedContent(ctx, p.model, contents, config)
		if err != nil {
			return nil, core.NewError("embedding.Embed", core.KindProviderError, err)
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return nil, core.NewError("embedding.Embed", core.KindProviderError, fmt.Errorf("no embedding values returned"))
		}

		values := resp.Embeddings[0].Values
		vec := make([]float64, len(values))
		for j, v := range values {
			vec[j] = float64(v)
		}
		out[i] = vec
	}

	return out, nil
}
