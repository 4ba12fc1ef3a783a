package core

// MergePolicy selects how a readable extractor's output interacts with
// an expression's existing fields.
type MergePolicy string

const (
	MergeSmart    MergePolicy = "smart_merge"
	MergeOverwrite MergePolicy = "overwrite"
	MergeMercury   MergePolicy = "mercury_priority"
)

// SimilarityMethodParam selects which similarity algorithm a run uses.
type SimilarityMethodParam string

const (
	MethodCosine    SimilarityMethodParam = "cosine"
	MethodCosineLSH SimilarityMethodParam = "cosine_lsh"
)

// OperationParams is the explicit parameter bag every land_pipeline
// operation accepts, replacing the dynamically-attributed argument bag
// pattern the original system used (see spec.md's Design Notes).
// Only the fields relevant to a given operation are read; zero values
// mean "not set" for optional fields.
type OperationParams struct {
	Name      string   // land name
	Terms     []string // comma-split, already trimmed
	URLs      []string
	Path      string // file path to read seed URLs/terms from, if any

	Limit        int    // 0 = unlimited
	Depth        int    // -1 = not set
	HTTPStatus   string // "" = not set (fetch-only-unfetched default)
	MinRelevance int

	Force bool

	MergePolicy MergePolicy
	LLMEnabled  bool

	Method   SimilarityMethodParam
	Threshold float64
	TopK      int
	LSHBits   int
	MaxPairs  int

	Backend string // export type, e.g. "pagecsv", "corpus"
}
