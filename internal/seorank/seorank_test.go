package seorank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func TestFactoryCreateDisabledWithoutKey(t *testing.T) {
	f := NewFactory("")
	p := f.Create()
	require.Equal(t, "disabled", p.Name())

	_, err := p.Enrich(context.Background(), "https://example.com")
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindProviderError))
}

func TestHTTPProviderEnrichReturnsRawJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "https://example.com/page", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rank":42}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("test-key")
	p.endpoint = srv.URL
	p.rateLimit = 0

	raw, err := p.Enrich(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	require.JSONEq(t, `{"rank":42}`, string(raw))
}

func TestHTTPProviderEnrichNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider("test-key")
	p.endpoint = srv.URL
	p.rateLimit = 0

	_, err := p.Enrich(context.Background(), "https://example.com")
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindProviderError))
}

func TestHTTPProviderThrottles(t *testing.T) {
	p := NewHTTPProvider("key")
	p.rateLimit = 20 * time.Millisecond
	p.lastCall = time.Now()

	start := time.Now()
	p.throttle()
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
