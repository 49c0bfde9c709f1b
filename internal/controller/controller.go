// Package controller orchestrates one visible list: it owns the list's
// displayed state, runs drag sessions, applies engine output optimistically,
// and hands change batches to the external persistence collaborator.
package controller

import (
	"strings"

	"sortable-cli/internal/engine"
	"sortable-cli/internal/model"
	"sortable-cli/internal/perm"
	"sortable-cli/internal/registry"
	"sortable-cli/internal/session"
)

// Sink is the outbound change channel: one batch per completed drop. The
// hand-off is fire-and-forget; failures are the collaborator's concern and
// correctness is restored by the next authoritative refresh.
type Sink interface {
	Publish(batch model.ChangeBatch) error
}

// Options wires one list instance.
type Options struct {
	ListID         string
	AllowedTargets []string
	MultiSelect    bool
	Filter         model.FilterMode
	Policy         perm.Policy
	Broker         *registry.Broker
	Sink           Sink
}

// Controller keeps a provisional/authoritative snapshot pair: the last
// externally supplied snapshot is authoritative, a drop overlays a
// provisional order for visual continuity, and every refresh collapses back
// to authoritative.
type Controller struct {
	opts    Options
	session *session.Session

	authoritative  model.ListSnapshot
	provisional    []model.Item
	hasProvisional bool

	selection []string
}

func New(opts Options) *Controller {
	opts.ListID = strings.TrimSpace(opts.ListID)
	return &Controller{
		opts:          opts,
		session:       session.New(opts.ListID, opts.Broker),
		authoritative: model.NewListSnapshot(opts.ListID, opts.AllowedTargets, nil),
	}
}

func (c *Controller) ListID() string            { return c.opts.ListID }
func (c *Controller) Session() *session.Session { return c.session }

// Refresh replaces the authoritative snapshot from the external data source
// and discards any provisional overlay. Applying the same snapshot twice
// yields the same displayed order.
func (c *Controller) Refresh(items []model.Item) {
	c.authoritative = model.NewListSnapshot(c.opts.ListID, c.opts.AllowedTargets, items)
	c.provisional = nil
	c.hasProvisional = false
}

// Snapshot returns the displayed order: the provisional overlay when one is
// pending, otherwise the authoritative snapshot.
func (c *Controller) Snapshot() model.ListSnapshot {
	if !c.hasProvisional {
		return c.authoritative
	}
	return model.ListSnapshot{
		ListID:         c.opts.ListID,
		AllowedTargets: append([]string{}, c.opts.AllowedTargets...),
		Items:          append([]model.Item{}, c.provisional...),
	}
}

// Items returns the displayed items in order.
func (c *Controller) Items() []model.Item {
	return append([]model.Item{}, c.Snapshot().Items...)
}

// ToggleSelect adds or removes an item from the multi-select set. Disabled
// selections are a no-op so a drag payload can never silently grow.
func (c *Controller) ToggleSelect(itemID string) {
	if !c.opts.MultiSelect {
		return
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" || c.authoritative.Index(itemID) < 0 {
		return
	}
	for i, sel := range c.selection {
		if sel == itemID {
			c.selection = append(c.selection[:i], c.selection[i+1:]...)
			return
		}
	}
	c.selection = append(c.selection, itemID)
}

func (c *Controller) Selection() []string { return append([]string{}, c.selection...) }

func (c *Controller) Selected(itemID string) bool {
	for _, sel := range c.selection {
		if sel == itemID {
			return true
		}
	}
	return false
}

// PointerDown arms a drag on one of this list's items.
func (c *Controller) PointerDown(itemID string) error {
	if c.authoritative.Index(itemID) < 0 {
		return session.ErrNotArmed
	}
	return c.session.Arm(itemID, c.selection, c.opts.MultiSelect)
}

// BeginDrag confirms the armed drag: the source list is snapshotted and the
// session published to the broker.
func (c *Controller) BeginDrag() error {
	return c.session.Activate(c.authoritative)
}

// Hover records a target update on this instance's own session, debounced.
// It reports whether the hovered list may accept the drag.
func (c *Controller) Hover(target model.DropTarget) (allowed bool) {
	if _, err := c.session.Hover(target); err != nil {
		return false
	}
	return c.opts.Policy.TransferAllowed(c.opts.ListID, target.ListID, c.authoritative.AllowedTargets)
}

// HoverAllowed evaluates, on the receiving side, whether the broker's active
// drag may drop here. Advisory only; no state changes.
func (c *Controller) HoverAllowed(e *registry.Entry) bool {
	if e == nil {
		return false
	}
	return c.opts.Policy.TransferAllowed(e.SourceListID, c.opts.ListID, e.AllowedTargets)
}

// ReceiveDrop resolves a drop onto this list. It re-checks the permission
// policy, runs the engine, applies the resulting local order provisionally,
// and publishes the change batch outward. A rejected or no-op drop returns
// ok=false with zero records and no mutation; caller-side cleanup (ending the
// source session) still runs.
func (c *Controller) ReceiveDrop(e registry.Entry, target model.DropTarget) (engine.Result, bool) {
	if !c.opts.Policy.TransferAllowed(e.SourceListID, c.opts.ListID, e.AllowedTargets) {
		return engine.Result{NoOp: true}, false
	}

	res := engine.Plan(engine.Request{
		Source:     e.SourceSnapshot,
		Target:     c.authoritative,
		DraggedIDs: e.MovedItemIDs,
		Drop:       target,
		Filter:     c.opts.Filter,
	})
	if res.NoOp {
		return res, false
	}

	c.provisional = append([]model.Item{}, res.TargetOrder...)
	c.hasProvisional = true
	c.selection = nil

	if c.opts.Sink != nil {
		// Fire-and-forget: transient state is not held hostage to the write.
		_ = c.opts.Sink.Publish(res.Records)
	}
	return res, true
}

// ApplySourceOrder overlays the post-removal order on the source list after a
// cross-list drop resolved elsewhere.
func (c *Controller) ApplySourceOrder(items []model.Item) {
	c.provisional = append([]model.Item{}, items...)
	c.hasProvisional = true
	c.selection = nil
}

// FinishDrop consumes this instance's session after the drop resolved on the
// receiving list (successfully or not). Cleanup matches the cancel path.
func (c *Controller) FinishDrop() {
	if _, _, err := c.session.Resolve(); err != nil {
		c.session.Cancel()
	}
}

// EndDrag funnels every gesture end, drop or cancel, through the same
// cleanup: the session is discarded and the broker entry cleared.
func (c *Controller) EndDrag() {
	switch c.session.State() {
	case session.StateArmed:
		c.session.Disarm()
	case session.StateActive, session.StateHovering:
		c.session.Cancel()
	}
}
