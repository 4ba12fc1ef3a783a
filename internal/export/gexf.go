package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"

	"mwi/internal/core"
)

type gexfRoot struct {
	XMLName xml.Name  `xml:"gexf"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	DefaultEdgeType string         `xml:"defaultedgetype,attr"`
	NodeAttributes  gexfAttributes `xml:"attributes"`
	Nodes           gexfNodes      `xml:"nodes"`
	Edges           gexfEdges      `xml:"edges"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Nodes []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID        string         `xml:"id,attr"`
	Label     string         `xml:"label,attr"`
	AttValues gexfAttvalues  `xml:"attvalues"`
}

type gexfAttvalues struct {
	Values []gexfAttvalue `xml:"attvalue"`
}

type gexfAttvalue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdges struct {
	Edges []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// pageNodeAttributes is the GEXF node-attribute schema for PageGEXF,
// mirroring PageCSV's column order (sans id/title, which already carry
// over as the node id/label).
var pageNodeAttributes = []gexfAttribute{
	{ID: "0", Title: "url", Type: "string"},
	{ID: "1", Title: "domain", Type: "string"},
	{ID: "2", Title: "depth", Type: "integer"},
	{ID: "3", Title: "relevance", Type: "integer"},
	{ID: "4", Title: "http_status", Type: "string"},
	{ID: "5", Title: "fetched_at", Type: "string"},
	{ID: "6", Title: "readable_at", Type: "string"},
	{ID: "7", Title: "validllm", Type: "string"},
	{ID: "8", Title: "validmodel", Type: "string"},
}

// domainNodeAttributes is NodeGEXF's node-attribute schema, mirroring
// NodeCSV's domain-level aggregate columns.
var domainNodeAttributes = []gexfAttribute{
	{ID: "0", Title: "domain", Type: "string"},
	{ID: "1", Title: "expression_count", Type: "integer"},
}

func pageAttvalues(e core.Expression, domainName string) gexfAttvalues {
	return gexfAttvalues{Values: []gexfAttvalue{
		{For: "0", Value: e.URL},
		{For: "1", Value: domainName},
		{For: "2", Value: strconv.Itoa(e.Depth)},
		{For: "3", Value: strconv.Itoa(e.Relevance)},
		{For: "4", Value: e.HTTPStatus},
		{For: "5", Value: formatTimePtr(e.FetchedAt)},
		{For: "6", Value: formatTimePtr(e.ReadableAt)},
		{For: "7", Value: string(e.ValidLLM)},
		{For: "8", Value: e.ValidModel},
	}}
}

func domainAttvalues(domainName string, count int) gexfAttvalues {
	return gexfAttvalues{Values: []gexfAttvalue{
		{For: "0", Value: domainName},
		{For: "1", Value: strconv.Itoa(count)},
	}}
}

// PageGEXF writes a GEXF 1.2 graph of qualifying expressions as nodes,
// linked by ExpressionLinks filtered to qualifying endpoints. Each node
// carries the same attributes as PageCSV's columns, declared once in
// the graph's <attributes class="node"> block and referenced per node
// by <attvalues>.
func PageGEXF(path string, exprs []core.Expression, links []core.ExpressionLink, domainNames map[int64]string, minRelevance int) error {
	qualifying := filterByRelevance(exprs, minRelevance)
	qualifyingIDs := make(map[int64]bool, len(qualifying))

	root := gexfRoot{
		Xmlns:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			NodeAttributes:  gexfAttributes{Class: "node", Attributes: pageNodeAttributes},
		},
	}

	for _, e := range qualifying {
		qualifyingIDs[e.ID] = true
		label := e.Title
		if label == "" {
			label = e.URL
		}
		root.Graph.Nodes.Nodes = append(root.Graph.Nodes.Nodes, gexfNode{
			ID:        strconv.FormatInt(e.ID, 10),
			Label:     label,
			AttValues: pageAttvalues(e, domainNames[e.DomainID]),
		})
	}

	edgeID := 0
	for _, l := range links {
		if !qualifyingIDs[l.SourceID] || !qualifyingIDs[l.TargetID] {
			continue
		}
		root.Graph.Edges.Edges = append(root.Graph.Edges.Edges, gexfEdge{
			ID:     strconv.Itoa(edgeID),
			Source: strconv.FormatInt(l.SourceID, 10),
			Target: strconv.FormatInt(l.TargetID, 10),
		})
		edgeID++
	}

	return writeGEXF(path, root)
}

// NodeGEXF writes a GEXF 1.2 graph of domains as nodes, with an edge
// between two domains whenever a qualifying expression in one links to
// a qualifying expression in the other. Each domain node carries the
// same aggregate attributes as NodeCSV.
func NodeGEXF(path string, exprs []core.Expression, links []core.ExpressionLink, domainNames map[int64]string, minRelevance int) error {
	qualifying := filterByRelevance(exprs, minRelevance)
	domainOf := make(map[int64]int64, len(qualifying))
	qualifyingIDs := make(map[int64]bool, len(qualifying))
	counts := make(map[int64]int)

	for _, e := range qualifying {
		qualifyingIDs[e.ID] = true
		domainOf[e.ID] = e.DomainID
		counts[e.DomainID]++
	}

	root := gexfRoot{
		Xmlns:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			NodeAttributes:  gexfAttributes{Class: "node", Attributes: domainNodeAttributes},
		},
	}

	seenDomains := make(map[int64]bool, len(counts))
	for _, e := range qualifying {
		if seenDomains[e.DomainID] {
			continue
		}
		seenDomains[e.DomainID] = true
		root.Graph.Nodes.Nodes = append(root.Graph.Nodes.Nodes, gexfNode{
			ID:        strconv.FormatInt(e.DomainID, 10),
			Label:     domainNames[e.DomainID],
			AttValues: domainAttvalues(domainNames[e.DomainID], counts[e.DomainID]),
		})
	}

	type domainPair struct{ source, target int64 }
	seenEdges := make(map[domainPair]bool)
	edgeID := 0
	for _, l := range links {
		if !qualifyingIDs[l.SourceID] || !qualifyingIDs[l.TargetID] {
			continue
		}
		pair := domainPair{domainOf[l.SourceID], domainOf[l.TargetID]}
		if seenEdges[pair] {
			continue
		}
		seenEdges[pair] = true
		root.Graph.Edges.Edges = append(root.Graph.Edges.Edges, gexfEdge{
			ID:     strconv.Itoa(edgeID),
			Source: strconv.FormatInt(pair.source, 10),
			Target: strconv.FormatInt(pair.target, 10),
		})
		edgeID++
	}

	return writeGEXF(path, root)
}

func writeGEXF(path string, root gexfRoot) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(root)
}
