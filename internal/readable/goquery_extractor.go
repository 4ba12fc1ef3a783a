package readable

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GoQueryExtractor is the default/fallback readable extractor,
// generalized from the teacher's ParseArticleContent: strip boilerplate
// elements, look for a main-content container, fall back to every
// block-level element in body if none of the known selectors match,
// and to body's whole text if it holds no block-level element.
type GoQueryExtractor struct{}

// NewGoQueryExtractor builds the default extractor.
func NewGoQueryExtractor() *GoQueryExtractor { return &GoQueryExtractor{} }

func (e *GoQueryExtractor) Name() string { return "goquery" }

var mainContentSelectors = []string{
	"article", "main", ".main-content", ".entry-content", ".post-content",
	".post-body", ".article-body", "[role='main']", ".content", "#content",
}

var blockSelectors = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

var collapseNewlines = regexp.MustCompile(`\n{2,}`)

func (e *GoQueryExtractor) Extract(_ context.Context, html []byte, url string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return Result{}, err
	}

	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript, " +
		".sidebar, #sidebar, .ad, .advertisement, .popup, .modal, .cookie-banner").Remove()

	var b strings.Builder
	for _, sel := range mainContentSelectors {
		container := doc.Find(sel)
		if container.Length() == 0 {
			continue
		}
		container.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n\n")
			}
		})
		if b.Len() > 0 {
			break
		}
	}

	if b.Len() == 0 {
		doc.Find("body").Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n\n")
			}
		})
	}

	if b.Len() == 0 {
		b.WriteString(doc.Find("body").Text())
	}

	text := strings.TrimSpace(collapseNewlines.ReplaceAllString(b.String(), "\n"))

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	description := ""
	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		description = strings.TrimSpace(desc)
	}

	return Result{Title: title, Description: description, Text: text}, nil
}
