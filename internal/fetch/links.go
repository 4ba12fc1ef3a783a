package fetch

import "net/url"

// resolveHref resolves a possibly-relative href against the page it
// was found on, skipping non-HTTP(S) schemes (mailto:, javascript:,
// tel:, anchors-only "#...") that never correspond to a crawlable
// expression.
func resolveHref(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
