package store

import (
	"context"
	"database/sql"

	"mwi/internal/core"
)

// ReplaceSimilarities deletes every existing row for the given method
// scoped to land, then bulk-inserts sims — a similarity run always
// recomputes from scratch, it never appends to a previous run's
// output.
func (s *Store) ReplaceSimilarities(ctx context.Context, landID int64, method core.SimilarityMethod, sims []core.ParagraphSimilarity) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM paragraph_similarities WHERE method = ? AND source_paragraph_id IN (
				SELECT p.id FROM paragraphs p JOIN expressions e ON e.id = p.expression_id WHERE e.land_id = ?
			)`, string(method), landID)
		if err != nil {
			return core.NewError("store.ReplaceSimilarities", core.KindSchemaError, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO paragraph_similarities (source_paragraph_id, target_paragraph_id, method, score)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return core.NewError("store.ReplaceSimilarities", core.KindSchemaError, err)
		}
		defer stmt.Close()

		for _, sim := range sims {
			if _, err := stmt.ExecContext(ctx, sim.SourceParagraphID, sim.TargetParagraphID, string(sim.Method), sim.Score); err != nil {
				return core.NewError("store.ReplaceSimilarities", core.KindSchemaError, err)
			}
		}
		return nil
	})
}

// ListSimilarities returns every similarity row for a land and method
// whose source AND target expressions both meet minRelevance — spec.md
// §4.7's "All exports honor minrel on both endpoints where applicable."
func (s *Store) ListSimilarities(ctx context.Context, landID int64, method core.SimilarityMethod, minRelevance int) ([]core.ParagraphSimilarity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.source_paragraph_id, ps.target_paragraph_id, ps.score, ps.method
		FROM paragraph_similarities ps
		JOIN paragraphs sp ON sp.id = ps.source_paragraph_id
		JOIN expressions se ON se.id = sp.expression_id
		JOIN paragraphs tp ON tp.id = ps.target_paragraph_id
		JOIN expressions te ON te.id = tp.expression_id
		WHERE se.land_id = ? AND ps.method = ? AND se.relevance >= ? AND te.relevance >= ?
		ORDER BY ps.source_paragraph_id, ps.target_paragraph_id`,
		landID, string(method), minRelevance, minRelevance)
	if err != nil {
		return nil, core.NewError("store.ListSimilarities", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.ParagraphSimilarity
	for rows.Next() {
		var sim core.ParagraphSimilarity
		var method string
		if err := rows.Scan(&sim.SourceParagraphID, &sim.TargetParagraphID, &sim.Score, &method); err != nil {
			return nil, core.NewError("store.ListSimilarities", core.KindSchemaError, err)
		}
		sim.Method = core.SimilarityMethod(method)
		out = append(out, sim)
	}
	return out, rows.Err()
}
