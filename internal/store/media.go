package store

import (
	"context"
	"database/sql"
	"errors"

	"mwi/internal/core"
)

// UpsertMedia inserts a media row, or silently keeps the existing one
// if (expression_id, url) already exists — two references to the same
// asset within one expression are never duplicated.
func (s *Store) UpsertMedia(ctx context.Context, m core.Media) (core.Media, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO media (expression_id, type, url, width, height, file_size, format)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ExpressionID, string(m.Type), m.URL, m.Width, m.Height, m.FileSize, m.Format)
		if err != nil {
			return core.NewError("store.UpsertMedia", core.KindSchemaError, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if id == 0 {
			return tx.QueryRowContext(ctx,
				`SELECT id FROM media WHERE expression_id = ? AND url = ?`, m.ExpressionID, m.URL).Scan(&m.ID)
		}
		m.ID = id
		return nil
	})
	return m, err
}

// ListMedia returns every media row belonging to an expression.
func (s *Store) ListMedia(ctx context.Context, expressionID int64) ([]core.Media, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expression_id, type, url, width, height, file_size, format, image_hash,
		 dominant_colors, n_dominant_colors, exif_data, analyzed_at FROM media WHERE expression_id = ?`,
		expressionID)
	if err != nil {
		return nil, core.NewError("store.ListMedia", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMedia(rs rowScanner) (core.Media, error) {
	var m core.Media
	var mediaType string
	var dominantColors, exif sql.NullString
	var analyzedAt sql.NullTime

	err := rs.Scan(&m.ID, &m.ExpressionID, &mediaType, &m.URL, &m.Width, &m.Height, &m.FileSize, &m.Format,
		&m.ImageHash, &dominantColors, &m.NDominantColors, &exif, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Media{}, core.NewError("store.scanMedia", core.KindNotFound, sql.ErrNoRows)
	}
	if err != nil {
		return core.Media{}, core.NewError("store.scanMedia", core.KindSchemaError, err)
	}
	m.Type = core.MediaType(mediaType)
	if dominantColors.Valid {
		m.DominantColors = []byte(dominantColors.String)
	}
	if exif.Valid {
		m.EXIFData = []byte(exif.String)
	}
	m.AnalyzedAt = timePtr(analyzedAt)
	return m, nil
}
