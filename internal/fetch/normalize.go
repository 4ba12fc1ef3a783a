// Package fetch implements C3, the bounded-concurrency crawl
// pipeline: URL normalization, per-domain politeness, a worker pool
// supervised by errgroup, retry with backoff+jitter, and goquery-based
// title/description/link extraction. The worker-pool shape is
// generalized from the teacher's feed aggregation manager (a
// semaphore-channel plus WaitGroup fan-out over a bounded number of
// feeds), promoted here to a real errgroup.Group with per-domain
// sub-semaphores.
package fetch

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"mwi/internal/core"
)

// NormalizeURL canonicalizes a URL so that equivalent addresses collapse
// to the same stored Expression: the scheme and host are lowercased,
// default ports are stripped, the fragment is dropped, and query
// parameters are sorted so that differently-ordered equivalent queries
// compare equal.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", core.NewError("fetch.NormalizeURL", core.KindInvalidInput, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", core.NewError("fetch.NormalizeURL", core.KindInvalidInput, urlMissingSchemeOrHost(raw))
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(stripDefaultPort(u.Host, u.Scheme))
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		sortedPairs := make([]string, 0, len(q))
		for k := range q {
			sortedPairs = append(sortedPairs, k)
		}
		sort.Strings(sortedPairs)

		var b strings.Builder
		for i, k := range sortedPairs {
			vals := q[k]
			sort.Strings(vals)
			for j, v := range vals {
				if i > 0 || j > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(k))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
		u.RawQuery = b.String()
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

func stripDefaultPort(host, scheme string) string {
	var defaultPort string
	switch scheme {
	case "http":
		defaultPort = ":80"
	case "https":
		defaultPort = ":443"
	default:
		return host
	}
	return strings.TrimSuffix(host, defaultPort)
}

// RegistrableDomain extracts the registrable domain (eTLD+1) from a
// normalized URL, used as the per-domain politeness key.
func RegistrableDomain(normalizedURL string) (string, error) {
	u, err := url.Parse(normalizedURL)
	if err != nil {
		return "", core.NewError("fetch.RegistrableDomain", core.KindInvalidInput, err)
	}
	host := u.Hostname()
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// hosts like "localhost" or bare IPs have no public suffix entry;
		// fall back to the hostname itself rather than failing the crawl.
		return host, nil
	}
	return domain, nil
}

type urlError string

func (e urlError) Error() string { return string(e) }

func urlMissingSchemeOrHost(raw string) error {
	return urlError("url missing scheme or host: " + raw)
}
