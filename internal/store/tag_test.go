package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"mwi/internal/core"
)

func TestCreateTagNestsUnderParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, err := s.CreateLand(ctx, "tagland", "", nil)
	require.NoError(t, err)

	root, err := s.CreateTag(ctx, core.Tag{LandID: land.ID, Name: "root"})
	require.NoError(t, err)

	child, err := s.CreateTag(ctx, core.Tag{LandID: land.ID, Name: "child", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	require.Equal(t, root.ID, *child.ParentID)
}

func TestCreateTagRejectsCycleThroughExistingChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, err := s.CreateLand(ctx, "cycleland", "", nil)
	require.NoError(t, err)

	root, err := s.CreateTag(ctx, core.Tag{LandID: land.ID, Name: "root"})
	require.NoError(t, err)
	child, err := s.CreateTag(ctx, core.Tag{LandID: land.ID, Name: "child", ParentID: &root.ID})
	require.NoError(t, err)

	// simulate a reparent attempt that would close root -> child -> root
	_, err = s.CreateTag(ctx, core.Tag{ID: root.ID, LandID: land.ID, Name: "root", ParentID: &child.ID})
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.KindInvalidInput))
}

func TestEnsureAcyclicParentDetectsExistingLoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	land, err := s.CreateLand(ctx, "loopland", "", nil)
	require.NoError(t, err)
	a, err := s.CreateTag(ctx, core.Tag{LandID: land.ID, Name: "a"})
	require.NoError(t, err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.ExecContext(ctx, `UPDATE tags SET parent_id = ? WHERE id = ?`, a.ID, a.ID)
		return execErr
	})
	require.NoError(t, err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return ensureAcyclicParent(ctx, tx, a.ID, 0)
	})
	require.Error(t, err)
}
