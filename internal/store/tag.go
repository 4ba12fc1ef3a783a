package store

import (
	"context"
	"database/sql"
	"errors"

	"mwi/internal/core"
)

// CreateTag inserts a new tag under a land, optionally nested under
// parentID. It walks the parent chain first and rejects any insert
// that would close a cycle.
func (s *Store) CreateTag(ctx context.Context, t core.Tag) (core.Tag, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if t.ParentID != nil {
			if err := ensureAcyclicParent(ctx, tx, *t.ParentID, t.ID); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tags (land_id, name, color, sorting, parent_id) VALUES (?, ?, ?, ?, ?)`,
			t.LandID, t.Name, t.Color, t.Sorting, t.ParentID)
		if err != nil {
			return core.NewError("store.CreateTag", core.KindSchemaError, err)
		}
		t.ID, err = res.LastInsertId()
		return err
	})
	return t, err
}

// ensureAcyclicParent walks the ancestor chain starting at parentID,
// rejecting the insert if selfID appears among its own ancestors or if
// the existing chain already loops. selfID is 0 for a genuinely new
// tag, which can never be its own ancestor; the selfID comparison only
// matters once tags can be reparented.
func ensureAcyclicParent(ctx context.Context, tx *sql.Tx, parentID, selfID int64) error {
	visited := make(map[int64]bool)
	cur := parentID
	for {
		if selfID != 0 && cur == selfID {
			return core.NewError("store.CreateTag", core.KindInvalidInput, errors.New("tag parent chain would cycle back to itself"))
		}
		if visited[cur] {
			return core.NewError("store.CreateTag", core.KindInvalidInput, errors.New("tag parent chain is already cyclic"))
		}
		visited[cur] = true

		var parent sql.NullInt64
		err := tx.QueryRowContext(ctx, `SELECT parent_id FROM tags WHERE id = ?`, cur).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return core.NewError("store.CreateTag", core.KindSchemaError, err)
		}
		if !parent.Valid {
			return nil
		}
		cur = parent.Int64
	}
}

// ListTags returns every tag for a land, ordered by sorting then name.
func (s *Store) ListTags(ctx context.Context, landID int64) ([]core.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, land_id, name, color, sorting, parent_id FROM tags WHERE land_id = ? ORDER BY sorting, name`, landID)
	if err != nil {
		return nil, core.NewError("store.ListTags", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Tag
	for rows.Next() {
		var t core.Tag
		var parentID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.LandID, &t.Name, &t.Color, &t.Sorting, &parentID); err != nil {
			return nil, core.NewError("store.ListTags", core.KindSchemaError, err)
		}
		if parentID.Valid {
			v := parentID.Int64
			t.ParentID = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTaggedContent records a tagged excerpt of an expression.
func (s *Store) CreateTaggedContent(ctx context.Context, tc core.TaggedContent) (core.TaggedContent, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tagged_content (tag_id, expression_id, text, from_char, to_char) VALUES (?, ?, ?, ?, ?)`,
			tc.TagID, tc.ExpressionID, tc.Text, tc.FromChar, tc.ToChar)
		if err != nil {
			return core.NewError("store.CreateTaggedContent", core.KindSchemaError, err)
		}
		tc.ID, err = res.LastInsertId()
		return err
	})
	return tc, err
}

// ListTaggedContent returns every tagged excerpt for a tag.
func (s *Store) ListTaggedContent(ctx context.Context, tagID int64) ([]core.TaggedContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tag_id, expression_id, text, from_char, to_char FROM tagged_content WHERE tag_id = ? ORDER BY id`, tagID)
	if err != nil {
		return nil, core.NewError("store.ListTaggedContent", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.TaggedContent
	for rows.Next() {
		var tc core.TaggedContent
		if err := rows.Scan(&tc.ID, &tc.TagID, &tc.ExpressionID, &tc.Text, &tc.FromChar, &tc.ToChar); err != nil {
			return nil, core.NewError("store.ListTaggedContent", core.KindSchemaError, err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
