package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchExtractsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Hello</title>
			<meta name="description" content="a page about testing"></head>
			<body><a href="/next">next</a><a href="mailto:x@y.com">mail</a></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), 0)
	res, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Equal(t, "200", res.HTTPStatus)
	require.Equal(t, "Hello", res.Title)
	require.Equal(t, "a page about testing", res.Description)
	require.Len(t, res.Links, 1)
}

func TestFetchRecordsNon200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), 0)
	res, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	require.Equal(t, "404", res.HTTPStatus)
}

func TestFetchConnectionFailure(t *testing.T) {
	f := NewFetcher(http.DefaultClient, 0)
	res, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	require.NoError(t, err)
	require.Equal(t, "000", res.HTTPStatus)
}

func TestFetchStopsAfterMaxRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), 2)
	res, err := f.Fetch(context.Background(), srv.URL+"/a")
	require.NoError(t, err)
	require.Equal(t, "000", res.HTTPStatus)
}

func TestFetchFollowsRedirectsWithinLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/end", http.StatusFound)
			return
		}
		w.Write([]byte(`<html><head><title>Landed</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), 5)
	res, err := f.Fetch(context.Background(), srv.URL+"/start")
	require.NoError(t, err)
	require.Equal(t, "200", res.HTTPStatus)
	require.Equal(t, "Landed", res.Title)
}

func TestPoolRunRespectsPerDomainLimit(t *testing.T) {
	var active, maxActive int
	release := make(chan struct{})

	pool := NewPool(Options{WorkerCount: 8, PerDomainLimit: 1, MaxRetries: 0})

	tasks := []Task{
		{URL: "https://example.com/1", Domain: "example.com"},
		{URL: "https://example.com/2", Domain: "example.com"},
	}

	done := make(chan struct{})
	go func() {
		pool.Run(context.Background(), tasks, func(ctx context.Context, tsk Task) error {
			active++
			if active > maxActive {
				maxActive = active
			}
			<-release
			active--
			return nil
		})
		close(done)
	}()

	release <- struct{}{}
	release <- struct{}{}
	<-done

	require.LessOrEqual(t, maxActive, 1)
}
