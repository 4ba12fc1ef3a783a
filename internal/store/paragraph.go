package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	"mwi/internal/core"
)

// CreateParagraph inserts a paragraph, skipping it silently if
// text_hash already exists — the embedding engine dedupes identical
// paragraph text across the whole store, not just within one
// expression, per spec.md §4.5.
func (s *Store) CreateParagraph(ctx context.Context, p core.Paragraph) (core.Paragraph, bool, error) {
	var inserted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO paragraphs (expression_id, text, text_hash, position) VALUES (?, ?, ?, ?)`,
			p.ExpressionID, p.Text, p.TextHash, p.Position)
		if err != nil {
			return core.NewError("store.CreateParagraph", core.KindSchemaError, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if id == 0 {
			inserted = false
			return tx.QueryRowContext(ctx, `SELECT id FROM paragraphs WHERE text_hash = ?`, p.TextHash).Scan(&p.ID)
		}
		inserted = true
		p.ID = id
		return nil
	})
	return p, inserted, err
}

// ListParagraphs returns every paragraph belonging to a land, regardless
// of embedding status — used by export paths that need a
// paragraph-to-expression join (e.g. pseudolinks aggregation).
func (s *Store) ListParagraphs(ctx context.Context, landID int64) ([]core.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.expression_id, p.text, p.text_hash, p.position FROM paragraphs p
		JOIN expressions e ON e.id = p.expression_id
		WHERE e.land_id = ? ORDER BY p.id`, landID)
	if err != nil {
		return nil, core.NewError("store.ListParagraphs", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Paragraph
	for rows.Next() {
		var p core.Paragraph
		if err := rows.Scan(&p.ID, &p.ExpressionID, &p.Text, &p.TextHash, &p.Position); err != nil {
			return nil, core.NewError("store.ListParagraphs", core.KindSchemaError, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListParagraphsWithoutEmbedding returns up to limit paragraphs in a
// land that have no paragraph_embeddings row yet (limit<=0 means
// unlimited).
func (s *Store) ListParagraphsWithoutEmbedding(ctx context.Context, landID int64, limit int) ([]core.Paragraph, error) {
	query := `SELECT p.id, p.expression_id, p.text, p.text_hash, p.position FROM paragraphs p
		JOIN expressions e ON e.id = p.expression_id
		LEFT JOIN paragraph_embeddings pe ON pe.paragraph_id = p.id
		WHERE e.land_id = ? AND pe.paragraph_id IS NULL ORDER BY p.id`
	args := []any{landID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewError("store.ListParagraphsWithoutEmbedding", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Paragraph
	for rows.Next() {
		var p core.Paragraph
		if err := rows.Scan(&p.ID, &p.ExpressionID, &p.Text, &p.TextHash, &p.Position); err != nil {
			return nil, core.NewError("store.ListParagraphsWithoutEmbedding", core.KindSchemaError, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PutEmbedding stores (or replaces) the embedding vector for a
// paragraph.
func (s *Store) PutEmbedding(ctx context.Context, e core.ParagraphEmbedding) error {
	blob := encodeVector(e.Vector)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO paragraph_embeddings (paragraph_id, vector, model_name, dimension) VALUES (?, ?, ?, ?)
			 ON CONFLICT(paragraph_id) DO UPDATE SET vector = excluded.vector, model_name = excluded.model_name, dimension = excluded.dimension`,
			e.ParagraphID, blob, e.ModelName, e.Dimension)
		if err != nil {
			return core.NewError("store.PutEmbedding", core.KindSchemaError, err)
		}
		return nil
	})
}

// ListEmbeddings returns every embedding for paragraphs belonging to a
// land, joined with relevance so callers can filter by minrel without
// a second query.
func (s *Store) ListEmbeddings(ctx context.Context, landID int64, minRelevance int) ([]core.ParagraphEmbedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pe.paragraph_id, pe.vector, pe.model_name, pe.dimension FROM paragraph_embeddings pe
		 JOIN paragraphs p ON p.id = pe.paragraph_id
		 JOIN expressions e ON e.id = p.expression_id
		 WHERE e.land_id = ? AND e.relevance >= ? ORDER BY pe.paragraph_id`, landID, minRelevance)
	if err != nil {
		return nil, core.NewError("store.ListEmbeddings", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.ParagraphEmbedding
	for rows.Next() {
		var pe core.ParagraphEmbedding
		var blob []byte
		if err := rows.Scan(&pe.ParagraphID, &blob, &pe.ModelName, &pe.Dimension); err != nil {
			return nil, core.NewError("store.ListEmbeddings", core.KindSchemaError, err)
		}
		pe.Vector = decodeVector(blob)
		out = append(out, pe)
	}
	return out, rows.Err()
}

// ResetEmbeddings removes every paragraph, embedding and similarity row
// for a land — the atomic reset operation C5 exposes before
// regenerating embeddings with a different model.
func (s *Store) ResetEmbeddings(ctx context.Context, landID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM paragraph_similarities WHERE source_paragraph_id IN (
				SELECT p.id FROM paragraphs p JOIN expressions e ON e.id = p.expression_id WHERE e.land_id = ?
			)`, landID)
		if err != nil {
			return core.NewError("store.ResetEmbeddings", core.KindSchemaError, err)
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM paragraphs WHERE expression_id IN (
				SELECT id FROM expressions WHERE land_id = ?
			)`, landID)
		if err != nil {
			return core.NewError("store.ResetEmbeddings", core.KindSchemaError, err)
		}
		return nil
	})
}

// encodeVector/decodeVector store a []float64 as a little-endian BLOB
// of IEEE-754 doubles — compact and exact, unlike a JSON round-trip.
func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float64 {
	n := len(buf) / 8
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return v
}
