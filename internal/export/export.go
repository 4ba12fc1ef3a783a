// Package export implements C7: CSV, GEXF 1.2, and batched ZIP corpus
// exports, plus pseudolinks aggregation CSVs. File naming follows the
// teacher's render.RenderMarkdownDigest convention — a timestamped
// filename under an output directory, generalized from
// "digest_<date>.md" to "export_land_<name>_<type>_<timestamp>.<ext>".
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mwi/internal/core"
)

// Format names the seven export backends spec.md §4.7 defines.
type Format string

const (
	FormatPageCSV         Format = "pagecsv"
	FormatFullPageCSV     Format = "fullpagecsv"
	FormatNodeCSV         Format = "nodecsv"
	FormatMediaCSV        Format = "mediacsv"
	FormatNodeLinkCSV     Format = "nodelinkcsv"
	FormatPageGEXF        Format = "pagegexf"
	FormatNodeGEXF        Format = "nodegexf"
	FormatCorpus          Format = "corpus"
	FormatPseudolinks     Format = "pseudolinks"
	FormatPseudolinksPage Format = "pseudolinkspage"
	FormatPseudolinksDom  Format = "pseudolinksdomain"
)

func extensionFor(f Format) string {
	switch f {
	case FormatPageGEXF, FormatNodeGEXF:
		return "gexf"
	case FormatCorpus:
		return "zip"
	default:
		return "csv"
	}
}

// OutputPath builds the timestamped path for one export file under dir.
func OutputPath(dir, landName string, f Format, now time.Time) string {
	ts := now.UTC().Format("20060102150405")
	filename := fmt.Sprintf("export_land_%s_%s_%s.%s", sanitize(landName), string(f), ts, extensionFor(f))
	return filepath.Join(dir, filename)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// filterByRelevance returns the subset of expressions with Relevance
// >= minRelevance — every export backend applies this same filter
// before serializing.
func filterByRelevance(exprs []core.Expression, minRelevance int) []core.Expression {
	out := make([]core.Expression, 0, len(exprs))
	for _, e := range exprs {
		if e.Relevance >= minRelevance {
			out = append(out, e)
		}
	}
	return out
}
