// Package reorder implements the client-side section reordering state
// machine: a drag (or up/down button press) rearranges a local copy of the
// list, the new order is applied optimistically, and a failed persist rolls
// the list back to the order the server last confirmed.
package reorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/client/api"
	"github.com/conlangforge/conlangforge/internal/client/models"
)

type State int

const (
	StateIdle State = iota
	StateDragging
	StatePersisting
)

var (
	ErrBusy        = errors.New("reorder already in progress")
	ErrNotDragging = errors.New("no drag in progress")
)

// Store persists a reorder batch and returns the authoritative section list.
type Store func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error)

// Engine tracks one word's section list through a reorder. It is driven from
// a single UI goroutine and is not safe for concurrent use.
type Engine struct {
	store Store
	state State

	sections []*models.LexicalSection
	snapshot []*models.LexicalSection
	dragged  int
}

func NewEngine(secs []*models.LexicalSection, store Store) *Engine {
	return &Engine{store: store, sections: clone(secs)}
}

func clone(secs []*models.LexicalSection) []*models.LexicalSection {
	out := make([]*models.LexicalSection, len(secs))
	copy(out, secs)
	return out
}

func (e *Engine) State() State { return e.state }

// Sections returns the list in its current display order.
func (e *Engine) Sections() []*models.LexicalSection {
	return clone(e.sections)
}

// Replace swaps in a freshly fetched list. Only legal while idle.
func (e *Engine) Replace(secs []*models.LexicalSection) error {
	if e.state != StateIdle {
		return ErrBusy
	}
	e.sections = clone(secs)
	return nil
}

// BeginDrag picks up the section at index. A drag cannot start while a
// previous reorder is still persisting.
func (e *Engine) BeginDrag(index int) error {
	if e.state != StateIdle {
		return ErrBusy
	}
	if index < 0 || index >= len(e.sections) {
		return fmt.Errorf("drag index %d out of range", index)
	}
	e.snapshot = clone(e.sections)
	e.dragged = index
	e.state = StateDragging
	return nil
}

// Move splices the dragged section to the given index, shifting everything
// between the old and new slot by one.
func (e *Engine) Move(to int) error {
	if e.state != StateDragging {
		return ErrNotDragging
	}
	if to < 0 || to >= len(e.sections) {
		return fmt.Errorf("drop index %d out of range", to)
	}
	if to == e.dragged {
		return nil
	}

	sec := e.sections[e.dragged]
	rest := append(e.sections[:e.dragged:e.dragged], e.sections[e.dragged+1:]...)
	e.sections = append(rest[:to:to], append([]*models.LexicalSection{sec}, rest[to:]...)...)
	e.dragged = to
	return nil
}

// CancelDrag restores the pre-drag order.
func (e *Engine) CancelDrag() error {
	if e.state != StateDragging {
		return ErrNotDragging
	}
	e.sections = e.snapshot
	e.snapshot = nil
	e.state = StateIdle
	return nil
}

// Commit ends the drag: every section is assigned its 1-based position in
// the current order, the order is kept optimistically, and the batch goes to
// the store. On success the store's authoritative list replaces the local
// one; on failure the list rolls back to the last confirmed order.
func (e *Engine) Commit(ctx context.Context) error {
	if e.state != StateDragging {
		return ErrNotDragging
	}

	updates := make([]api.PositionUpdate, 0, len(e.sections))
	for i, sec := range e.sections {
		sec.Position = i + 1
		updates = append(updates, api.PositionUpdate{ID: sec.ID, Position: i + 1})
	}

	e.state = StatePersisting

	confirmed, err := e.store(ctx, updates)
	if err != nil {
		for i, sec := range e.snapshot {
			sec.Position = i + 1
		}
		e.sections = e.snapshot
		e.snapshot = nil
		e.state = StateIdle
		return err
	}

	e.sections = clone(confirmed)
	e.snapshot = nil
	e.state = StateIdle
	return nil
}

// MoveUp swaps the section at index with its predecessor and persists. It is
// the button-mode equivalent of a one-slot drag and shares the same commit
// path.
func (e *Engine) MoveUp(ctx context.Context, index int) error {
	return e.shift(ctx, index, index-1)
}

// MoveDown swaps the section at index with its successor and persists.
func (e *Engine) MoveDown(ctx context.Context, index int) error {
	return e.shift(ctx, index, index+1)
}

func (e *Engine) shift(ctx context.Context, from, to int) error {
	if to < 0 || to >= len(e.sections) {
		return fmt.Errorf("drop index %d out of range", to)
	}
	if err := e.BeginDrag(from); err != nil {
		return err
	}
	if err := e.Move(to); err != nil {
		e.CancelDrag()
		return err
	}
	return e.Commit(ctx)
}
