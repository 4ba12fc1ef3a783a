// Package seorank implements the optional SEO enrichment lookup:
// attaching third-party rank/authority data to an expression's URL.
// Grounded on the teacher's search.SerpAPIProvider — same rate-limited
// net/http JSON client shape, swapped from a search query to a single
// URL lookup.
package seorank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"mwi/internal/core"
	"mwi/internal/logger"
)

// Provider enriches a URL with third-party SEO data, returned as raw
// JSON for storage in Expression.SEORank without the engine needing to
// model every field the upstream API returns.
type Provider interface {
	Enrich(ctx context.Context, rawURL string) (json.RawMessage, error)
	Name() string
}

// Factory creates a Provider from an API key, mirroring the shape of
// llmrelevance.Factory and embedding's provider constructors.
type Factory struct {
	APIKey string
}

// NewFactory builds a Factory for the given API key.
func NewFactory(apiKey string) *Factory {
	return &Factory{APIKey: apiKey}
}

// Create returns the real HTTP-backed provider when an API key is
// configured, else a stub that returns KindProviderError so callers
// can distinguish "not configured" from "lookup failed".
func (f *Factory) Create() Provider {
	if f.APIKey == "" {
		return &disabledProvider{}
	}
	return NewHTTPProvider(f.APIKey)
}

type disabledProvider struct{}

func (d *disabledProvider) Name() string { return "disabled" }

func (d *disabledProvider) Enrich(ctx context.Context, rawURL string) (json.RawMessage, error) {
	return nil, core.NewError("seorank.Enrich", core.KindProviderError, fmt.Errorf("seorank provider not configured"))
}

const defaultEndpoint = "https://api.seorank.example/v1/lookup"

// HTTPProvider queries a third-party SEO ranking API for one URL at a
// time, rate-limited the same way the teacher's SerpAPIProvider throttles
// SerpAPI calls.
type HTTPProvider struct {
	apiKey    string
	endpoint  string
	client    *http.Client
	rateLimit time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewHTTPProvider builds an HTTPProvider for the given API key.
func NewHTTPProvider(apiKey string) *HTTPProvider {
	return &HTTPProvider{
		apiKey:    apiKey,
		endpoint:  defaultEndpoint,
		client:    &http.Client{Timeout: 30 * time.Second},
		rateLimit: 1 * time.Second,
	}
}

// Name identifies this provider for logging and ValidModel-style fields.
func (p *HTTPProvider) Name() string { return "seorank-http" }

// Enrich looks up SEO rank data for rawURL and returns the upstream
// response body verbatim as JSON.
func (p *HTTPProvider) Enrich(ctx context.Context, rawURL string) (json.RawMessage, error) {
	p.throttle()

	params := url.Values{}
	params.Set("url", rawURL)
	params.Set("api_key", p.apiKey)
	fullURL := p.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, core.NewError("seorank.Enrich", core.KindInvalidInput, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, core.NewError("seorank.Enrich", core.KindNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewError("seorank.Enrich", core.KindProviderError,
			fmt.Errorf("seorank request failed with status %d", resp.StatusCode))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, core.NewError("seorank.Enrich", core.KindProviderError, err)
	}

	logger.Info("seorank enrichment completed", "url", rawURL)
	return raw, nil
}

func (p *HTTPProvider) throttle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elapsed := time.Since(p.lastCall); elapsed < p.rateLimit {
		time.Sleep(p.rateLimit - elapsed)
	}
	p.lastCall = time.Now()
}
