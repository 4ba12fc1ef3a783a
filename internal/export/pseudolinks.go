package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"mwi/internal/core"
)

// PseudolinksCSV writes one row per ParagraphSimilarity: Source_ParagraphID,
// Target_ParagraphID, RelationScore, Method.
func PseudolinksCSV(path string, sims []core.ParagraphSimilarity) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Source_ParagraphID", "Target_ParagraphID", "RelationScore", "Method"}); err != nil {
		return err
	}
	for _, s := range sims {
		row := []string{
			strconv.FormatInt(s.SourceParagraphID, 10),
			strconv.FormatInt(s.TargetParagraphID, 10),
			strconv.FormatFloat(s.Score, 'f', 6, 64),
			string(s.Method),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

type pageAggregate struct {
	pairCount int
	sum       float64
	max       float64
}

// PseudolinksPageCSV aggregates similarities by (source expression,
// target expression): Source_ExpressionID, Target_ExpressionID,
// PairCount, AvgRelationScore, MaxRelationScore.
func PseudolinksPageCSV(path string, sims []core.ParagraphSimilarity, exprOfParagraph map[int64]int64) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	type key struct{ source, target int64 }
	agg := make(map[key]*pageAggregate)
	var order []key

	for _, s := range sims {
		srcExpr, ok1 := exprOfParagraph[s.SourceParagraphID]
		tgtExpr, ok2 := exprOfParagraph[s.TargetParagraphID]
		if !ok1 || !ok2 {
			continue
		}
		k := key{srcExpr, tgtExpr}
		a, exists := agg[k]
		if !exists {
			a = &pageAggregate{}
			agg[k] = a
			order = append(order, k)
		}
		a.pairCount++
		a.sum += s.Score
		if a.pairCount == 1 || s.Score > a.max {
			a.max = s.Score
		}
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Source_ExpressionID", "Target_ExpressionID", "PairCount", "AvgRelationScore", "MaxRelationScore"}); err != nil {
		return err
	}
	for _, k := range order {
		a := agg[k]
		row := []string{
			strconv.FormatInt(k.source, 10),
			strconv.FormatInt(k.target, 10),
			strconv.Itoa(a.pairCount),
			strconv.FormatFloat(a.sum/float64(a.pairCount), 'f', 6, 64),
			strconv.FormatFloat(a.max, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

type domainAggregate struct {
	pairCount int
	sum       float64
}

// PseudolinksDomainCSV aggregates similarities by (source domain,
// target domain): Source_DomainID, Target_DomainID, PairCount,
// AvgRelationScore.
func PseudolinksDomainCSV(path string, sims []core.ParagraphSimilarity, exprOfParagraph map[int64]int64, domainOfExpr map[int64]int64) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	type key struct{ source, target int64 }
	agg := make(map[key]*domainAggregate)
	var order []key

	for _, s := range sims {
		srcExpr, ok1 := exprOfParagraph[s.SourceParagraphID]
		tgtExpr, ok2 := exprOfParagraph[s.TargetParagraphID]
		if !ok1 || !ok2 {
			continue
		}
		srcDomain, ok3 := domainOfExpr[srcExpr]
		tgtDomain, ok4 := domainOfExpr[tgtExpr]
		if !ok3 || !ok4 {
			continue
		}
		k := key{srcDomain, tgtDomain}
		a, exists := agg[k]
		if !exists {
			a = &domainAggregate{}
			agg[k] = a
			order = append(order, k)
		}
		a.pairCount++
		a.sum += s.Score
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Source_DomainID", "Target_DomainID", "PairCount", "AvgRelationScore"}); err != nil {
		return err
	}
	for _, k := range order {
		a := agg[k]
		row := []string{
			strconv.FormatInt(k.source, 10),
			strconv.FormatInt(k.target, 10),
			strconv.Itoa(a.pairCount),
			strconv.FormatFloat(a.sum/float64(a.pairCount), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
