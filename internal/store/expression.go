package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mwi/internal/core"
)

// CreateExpression inserts a new expression at the given depth. url
// must already be normalized by the caller (internal/fetch owns
// normalization); a duplicate (land_id, url) pair is an idempotent
// no-op that returns the existing row.
func (s *Store) CreateExpression(ctx context.Context, landID, domainID int64, url string, depth int) (core.Expression, error) {
	if existing, err := s.GetExpressionByURL(ctx, landID, url); err == nil {
		return existing, nil
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO expressions (land_id, domain_id, url, depth) VALUES (?, ?, ?, ?)`,
			landID, domainID, url, depth)
		if err != nil {
			return core.NewError("store.CreateExpression", core.KindIntegrityViolation, err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return core.Expression{}, err
	}
	return s.GetExpression(ctx, id)
}

// GetExpression fetches an expression by id.
func (s *Store) GetExpression(ctx context.Context, id int64) (core.Expression, error) {
	row := s.db.QueryRowContext(ctx, expressionSelect+` WHERE id = ?`, id)
	return scanExpression(row)
}

// GetExpressionByURL fetches an expression by its (land, url) key.
func (s *Store) GetExpressionByURL(ctx context.Context, landID int64, url string) (core.Expression, error) {
	row := s.db.QueryRowContext(ctx, expressionSelect+` WHERE land_id = ? AND url = ?`, landID, url)
	return scanExpression(row)
}

// ListExpressions returns every expression for a land, optionally
// filtered to those at or above minRelevance (pass -1 for no filter).
func (s *Store) ListExpressions(ctx context.Context, landID int64, minRelevance int) ([]core.Expression, error) {
	query := expressionSelect + ` WHERE land_id = ?`
	args := []any{landID}
	if minRelevance >= 0 {
		query += ` AND relevance >= ?`
		args = append(args, minRelevance)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewError("store.ListExpressions", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Expression
	for rows.Next() {
		e, err := scanExpression(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListUnfetched returns expressions in a land that have never been
// fetched (fetched_at IS NULL), up to limit at a given depth (depth<0
// means any depth). limit<=0 means unlimited.
func (s *Store) ListUnfetched(ctx context.Context, landID int64, depth, limit int) ([]core.Expression, error) {
	query := expressionSelect + ` WHERE land_id = ? AND fetched_at IS NULL`
	args := []any{landID}
	if depth >= 0 {
		query += ` AND depth = ?`
		args = append(args, depth)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewError("store.ListUnfetched", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Expression
	for rows.Next() {
		e, err := scanExpression(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateFetchResult records the outcome of a fetch attempt: HTTP
// status, raw HTML (empty on failure), title/description when
// available, and the fetched_at timestamp.
func (s *Store) UpdateFetchResult(ctx context.Context, id int64, httpStatus, rawHTML, title, description string) error {
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE expressions SET http_status = ?, raw_html = ?, title = ?, description = ?, fetched_at = ? WHERE id = ?`,
			httpStatus, rawHTML, title, description, now, id)
		if err != nil {
			return core.NewError("store.UpdateFetchResult", core.KindSchemaError, err)
		}
		return nil
	})
}

// UpdateReadable records readable-pipeline output: the merged readable
// text and the readable_at timestamp.
func (s *Store) UpdateReadable(ctx context.Context, id int64, readable string) error {
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE expressions SET readable = ?, readable_at = ? WHERE id = ?`, readable, now, id)
		if err != nil {
			return core.NewError("store.UpdateReadable", core.KindSchemaError, err)
		}
		return nil
	})
}

// UpdateReadableFields records the full merge result from the readable
// pipeline: title and description as merged by the configured
// MergePolicy, alongside the merged readable text and its timestamp.
func (s *Store) UpdateReadableFields(ctx context.Context, id int64, title, description, readable string) error {
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE expressions SET title = ?, description = ?, readable = ?, readable_at = ? WHERE id = ?`,
			title, description, readable, now, id)
		if err != nil {
			return core.NewError("store.UpdateReadableFields", core.KindSchemaError, err)
		}
		return nil
	})
}

// UpdateValidation records the LLM relevance gate's verdict.
func (s *Store) UpdateValidation(ctx context.Context, id int64, valid core.ValidLLM, model string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE expressions SET validllm = ?, validmodel = ? WHERE id = ?`, string(valid), model, id)
		if err != nil {
			return core.NewError("store.UpdateValidation", core.KindSchemaError, err)
		}
		return nil
	})
}

// UpdateRelevance stores a freshly computed relevance score.
func (s *Store) UpdateRelevance(ctx context.Context, id int64, relevance int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE expressions SET relevance = ? WHERE id = ?`, relevance, id)
		if err != nil {
			return core.NewError("store.UpdateRelevance", core.KindSchemaError, err)
		}
		return nil
	})
}

// UpdateSEORank stores the raw SEO enrichment payload verbatim.
func (s *Store) UpdateSEORank(ctx context.Context, id int64, payload []byte) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE expressions SET seorank = ? WHERE id = ?`, string(payload), id)
		if err != nil {
			return core.NewError("store.UpdateSEORank", core.KindSchemaError, err)
		}
		return nil
	})
}

// AddLink records a discovered link between two expressions,
// idempotently.
func (s *Store) AddLink(ctx context.Context, sourceID, targetID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO expression_links (source_id, target_id) VALUES (?, ?)`, sourceID, targetID)
		if err != nil {
			return core.NewError("store.AddLink", core.KindSchemaError, err)
		}
		return nil
	})
}

// ListLinks returns every expression_links row for a land.
func (s *Store) ListLinks(ctx context.Context, landID int64) ([]core.ExpressionLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.source_id, l.target_id FROM expression_links l
		 JOIN expressions e ON e.id = l.source_id WHERE e.land_id = ?`, landID)
	if err != nil {
		return nil, core.NewError("store.ListLinks", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.ExpressionLink
	for rows.Next() {
		var link core.ExpressionLink
		if err := rows.Scan(&link.SourceID, &link.TargetID); err != nil {
			return nil, core.NewError("store.ListLinks", core.KindSchemaError, err)
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

const expressionSelect = `SELECT id, land_id, domain_id, url, depth, fetched_at, readable_at,
	http_status, title, description, raw_html, readable, relevance, validllm, validmodel, seorank
	FROM expressions`

func scanExpression(rs rowScanner) (core.Expression, error) {
	var e core.Expression
	var fetchedAt, readableAt sql.NullTime
	var seorank sql.NullString
	var validllm string

	err := rs.Scan(&e.ID, &e.LandID, &e.DomainID, &e.URL, &e.Depth, &fetchedAt, &readableAt,
		&e.HTTPStatus, &e.Title, &e.Description, &e.RawHTML, &e.Readable, &e.Relevance, &validllm, &e.ValidModel, &seorank)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expression{}, core.NewError("store.scanExpression", core.KindNotFound, fmt.Errorf("expression not found"))
	}
	if err != nil {
		return core.Expression{}, core.NewError("store.scanExpression", core.KindSchemaError, err)
	}

	e.FetchedAt = timePtr(fetchedAt)
	e.ReadableAt = timePtr(readableAt)
	e.ValidLLM = core.ValidLLM(validllm)
	if seorank.Valid {
		e.SEORank = []byte(seorank.String)
	}
	return e, nil
}
