// Package reorder implements the drag-and-drop interaction state machine for
// an ordered item list. The controller tracks a local optimistic copy of the
// order and hands completed moves to a Reorderer for persistence.
package reorder

import (
	"context"

	"github.com/google/uuid"
)

// Phase is the drag interaction phase.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
	PhaseHover    Phase = "hover"
)

// Reorderer persists a completed move as a full new ordering.
type Reorderer interface {
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
}

// ReordererFunc adapts a function to the Reorderer interface.
type ReordererFunc func(ctx context.Context, orderedIDs []uuid.UUID) error

func (f ReordererFunc) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	return f(ctx, orderedIDs)
}

// Controller drives one list's drag interaction. It is not safe for
// concurrent use; callers serialize access per list.
type Controller struct {
	reorderer Reorderer

	items    []uuid.UUID
	phase    Phase
	selected uuid.UUID
	dragging uuid.UUID
	hover    uuid.UUID
}

// NewController creates a controller over the given display order.
func NewController(items []uuid.UUID, reorderer Reorderer) *Controller {
	return &Controller{
		reorderer: reorderer,
		items:     append([]uuid.UUID(nil), items...),
		phase:     PhaseIdle,
	}
}

// Items returns a copy of the current local order.
func (c *Controller) Items() []uuid.UUID {
	return append([]uuid.UUID(nil), c.items...)
}

// Phase returns the current interaction phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Selected returns the selected item id, or uuid.Nil when nothing is
// selected.
func (c *Controller) Selected() uuid.UUID {
	return c.selected
}

// Select toggles selection of an item. Selecting one item deselects any
// other; selecting the already-selected item clears the selection. Selection
// changes are ignored mid-drag.
func (c *Controller) Select(id uuid.UUID) {
	if c.phase != PhaseIdle {
		return
	}
	if !c.contains(id) {
		return
	}
	if c.selected == id {
		c.selected = uuid.Nil
		return
	}
	c.selected = id
}

// DragStart begins a drag. Only the selected item can be dragged; starting a
// drag on any other item is ignored.
func (c *Controller) DragStart(id uuid.UUID) {
	if c.phase != PhaseIdle {
		return
	}
	if id == uuid.Nil || id != c.selected {
		return
	}
	c.phase = PhaseDragging
	c.dragging = id
}

// DragOver marks a potential drop target. Hovering the dragged item itself or
// an unknown id clears the target instead.
func (c *Controller) DragOver(id uuid.UUID) {
	if c.phase != PhaseDragging && c.phase != PhaseHover {
		return
	}
	if id == c.dragging || !c.contains(id) {
		c.phase = PhaseDragging
		c.hover = uuid.Nil
		return
	}
	c.phase = PhaseHover
	c.hover = id
}

// DragEnd cancels the drag without dropping. The selection survives so the
// user can retry.
func (c *Controller) DragEnd() {
	c.phase = PhaseIdle
	c.dragging = uuid.Nil
	c.hover = uuid.Nil
}

// Drop completes the drag onto target: the dragged item is moved immediately
// before target in the local order, then the full order is handed to the
// Reorderer. Dropping onto the dragged item itself or an unknown target is a
// no-op that keeps the selection. After a real move the selection is cleared.
//
// The local order keeps the optimistic move even when persistence fails; the
// returned error carries what the Reorderer reported.
func (c *Controller) Drop(ctx context.Context, target uuid.UUID) error {
	if c.phase != PhaseDragging && c.phase != PhaseHover {
		return nil
	}
	source := c.dragging
	c.phase = PhaseIdle
	c.dragging = uuid.Nil
	c.hover = uuid.Nil

	if target == source || !c.contains(target) {
		return nil
	}

	c.items = moveBefore(c.items, source, target)
	c.selected = uuid.Nil

	return c.reorderer.Reorder(ctx, c.Items())
}

func (c *Controller) contains(id uuid.UUID) bool {
	for _, it := range c.items {
		if it == id {
			return true
		}
	}
	return false
}

// moveBefore removes source and reinserts it immediately before target's
// position after the removal. [A B C D] with B moved before D yields
// [A C B D].
func moveBefore(items []uuid.UUID, source, target uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it != source {
			out = append(out, it)
		}
	}
	for i, it := range out {
		if it == target {
			out = append(out[:i], append([]uuid.UUID{source}, out[i:]...)...)
			return out
		}
	}
	return append(out, source)
}
