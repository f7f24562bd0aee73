package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conlangforge/conlangforge/internal/client/api"
	"github.com/conlangforge/conlangforge/internal/client/models"
)

func threeSections() []*models.LexicalSection {
	return []*models.LexicalSection{
		{ID: "a", Position: 1},
		{ID: "b", Position: 2},
		{ID: "c", Position: 3},
	}
}

func ids(secs []*models.LexicalSection) []string {
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.ID)
	}
	return out
}

// echoStore accepts the batch and returns a list in the requested order.
func echoStore(secs []*models.LexicalSection) Store {
	byID := map[string]*models.LexicalSection{}
	for _, s := range secs {
		byID[s.ID] = s
	}
	return func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
		out := make([]*models.LexicalSection, len(updates))
		for _, u := range updates {
			sec := *byID[u.ID]
			sec.Position = u.Position
			out[u.Position-1] = &sec
		}
		return out, nil
	}
}

func TestMove_SplicesNotSwaps(t *testing.T) {
	e := NewEngine(threeSections(), echoStore(threeSections()))

	// Dragging the first section two slots down shifts b and c up by one.
	require.NoError(t, e.BeginDrag(0))
	require.NoError(t, e.Move(2))
	require.Equal(t, []string{"b", "c", "a"}, ids(e.Sections()))
}

func TestCommit_AssignsDensePositions(t *testing.T) {
	var got []api.PositionUpdate
	store := func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
		got = updates
		return echoStore(threeSections())(ctx, updates)
	}
	e := NewEngine(threeSections(), store)

	require.NoError(t, e.BeginDrag(2))
	require.NoError(t, e.Move(0))
	require.NoError(t, e.Commit(context.Background()))

	require.Equal(t, []api.PositionUpdate{
		{ID: "c", Position: 1},
		{ID: "a", Position: 2},
		{ID: "b", Position: 3},
	}, got)
	require.Equal(t, StateIdle, e.State())

	secs := e.Sections()
	require.Equal(t, []string{"c", "a", "b"}, ids(secs))
	require.Equal(t, 1, secs[0].Position)
	require.Equal(t, 3, secs[2].Position)
}

func TestCommit_RollsBackOnStoreError(t *testing.T) {
	boom := errors.New("server rejected batch")
	store := func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
		return nil, boom
	}
	e := NewEngine(threeSections(), store)

	require.NoError(t, e.BeginDrag(0))
	require.NoError(t, e.Move(2))
	require.ErrorIs(t, e.Commit(context.Background()), boom)

	// The last confirmed order survives, positions included.
	secs := e.Sections()
	require.Equal(t, []string{"a", "b", "c"}, ids(secs))
	require.Equal(t, []int{1, 2, 3}, []int{secs[0].Position, secs[1].Position, secs[2].Position})
	require.Equal(t, StateIdle, e.State())
}

func TestCancelDrag_RestoresOrder(t *testing.T) {
	e := NewEngine(threeSections(), echoStore(threeSections()))

	require.NoError(t, e.BeginDrag(1))
	require.NoError(t, e.Move(2))
	require.NoError(t, e.CancelDrag())
	require.Equal(t, []string{"a", "b", "c"}, ids(e.Sections()))
}

func TestBeginDrag_RefusedWhilePersisting(t *testing.T) {
	var e *Engine
	var dragErr error
	store := func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
		dragErr = e.BeginDrag(0)
		return echoStore(threeSections())(ctx, updates)
	}
	e = NewEngine(threeSections(), store)

	require.NoError(t, e.BeginDrag(0))
	require.NoError(t, e.Move(1))
	require.NoError(t, e.Commit(context.Background()))
	require.ErrorIs(t, dragErr, ErrBusy)
}

func TestButtonsAndDragConverge(t *testing.T) {
	var dragBatch, buttonBatch []api.PositionUpdate
	capture := func(dst *[]api.PositionUpdate) Store {
		inner := echoStore(threeSections())
		return func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
			*dst = updates
			return inner(ctx, updates)
		}
	}

	drag := NewEngine(threeSections(), capture(&dragBatch))
	require.NoError(t, drag.BeginDrag(1))
	require.NoError(t, drag.Move(0))
	require.NoError(t, drag.Commit(context.Background()))

	buttons := NewEngine(threeSections(), capture(&buttonBatch))
	require.NoError(t, buttons.MoveUp(context.Background(), 1))

	require.Equal(t, dragBatch, buttonBatch)
	require.Equal(t, ids(drag.Sections()), ids(buttons.Sections()))
}

func TestMoveDown_AtEndIsRejected(t *testing.T) {
	e := NewEngine(threeSections(), echoStore(threeSections()))
	require.Error(t, e.MoveDown(context.Background(), 2))
	require.Equal(t, StateIdle, e.State())
}

func TestReplace_RefusedMidDrag(t *testing.T) {
	e := NewEngine(threeSections(), echoStore(threeSections()))
	require.NoError(t, e.BeginDrag(0))
	require.ErrorIs(t, e.Replace(threeSections()), ErrBusy)
}
