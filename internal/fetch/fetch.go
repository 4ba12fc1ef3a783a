package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mwi/internal/core"
)

// errTooManyRedirects is returned by http.Client.CheckRedirect once a
// fetch has followed more than the configured redirect cap; Fetch turns
// it into a "000" HTTPStatus the same as any other connection failure.
var errTooManyRedirects = errors.New("fetch: too many redirects")

// Result is the outcome of fetching one URL: either a successful
// response body plus extracted metadata, or an HTTPStatus recording
// why it failed. HTTPStatus follows spec.md's convention: "000" for a
// connection failure, "408" for a client-side timeout, and the literal
// status code text (e.g. "404") otherwise.
type Result struct {
	HTTPStatus  string
	RawHTML     string
	Title       string
	Description string
	Links       []string
}

// Fetcher performs the actual HTTP GET and metadata extraction for one
// URL. It is the function Pool.Run calls per task.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher builds a Fetcher around client, defaulting to a fresh
// http.Client if client is nil. maxRedirects caps the number of
// redirects Fetch will follow before giving up ("000" status, per
// spec.md §4.3's redirect limit); 0 leaves client's own redirect policy
// untouched.
func NewFetcher(client *http.Client, maxRedirects int) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if maxRedirects > 0 {
		c := *client
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return errTooManyRedirects
			}
			return nil
		}
		client = &c
	}
	return &Fetcher{Client: client}
}

// Fetch retrieves url and extracts its readable metadata. It never
// returns an error for a well-formed-but-unsuccessful HTTP exchange —
// those are reported through Result.HTTPStatus instead, since a 404 or
// 500 is a normal crawl outcome, not a pool-retry-worthy failure. Only
// request-construction errors (a malformed URL) are returned as Go
// errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, core.NewError("fetch.Fetch", core.KindInvalidInput, err)
	}
	req.Header.Set("User-Agent", "mwi-crawler/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{HTTPStatus: "408"}, nil
		}
		return Result{HTTPStatus: "000"}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{HTTPStatus: strconv.Itoa(resp.StatusCode)}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{HTTPStatus: "000"}, nil
	}

	html := string(body)
	title, description, links := ExtractMetadata(html, url)

	return Result{
		HTTPStatus:  strconv.Itoa(resp.StatusCode),
		RawHTML:     html,
		Title:       title,
		Description: description,
		Links:       links,
	}, nil
}

// ExtractMetadata parses html with goquery and pulls the page title,
// meta description, and every outbound anchor href — generalized from
// the teacher's extractTitle/ParseArticleContent helpers, which did the
// same head/og:title/h1 fallback chain for titles.
func ExtractMetadata(html, pageURL string) (title, description string, links []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", nil
	}

	title = strings.TrimSpace(doc.Find("head title").First().Text())
	if title == "" {
		if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		description = strings.TrimSpace(desc)
	}
	if description == "" {
		if og, ok := doc.Find("meta[property='og:description']").Attr("content"); ok {
			description = strings.TrimSpace(og)
		}
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved := resolveHref(pageURL, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return title, description, links
}
