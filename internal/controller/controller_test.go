package controller

import (
	"testing"

	"sortable-cli/internal/model"
	"sortable-cli/internal/perm"
	"sortable-cli/internal/registry"
)

type captureSink struct {
	batches []model.ChangeBatch
}

func (s *captureSink) Publish(batch model.ChangeBatch) error {
	s.batches = append(s.batches, batch)
	return nil
}

func items(listID string, ids ...string) []model.Item {
	out := make([]model.Item, len(ids))
	for i, id := range ids {
		out[i] = model.Item{ID: id, Position: i, ListID: listID}
	}
	return out
}

func orderIDs(its []model.Item) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.ID
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newTestController(broker *registry.Broker, sink Sink, listID string, targets ...string) *Controller {
	return New(Options{
		ListID:         listID,
		AllowedTargets: targets,
		MultiSelect:    true,
		Filter:         model.FilterFullChange,
		Policy:         perm.Default(),
		Broker:         broker,
		Sink:           sink,
	})
}

func TestRefreshIsIdempotent(t *testing.T) {
	c := newTestController(registry.NewBroker(), nil, "todo")
	rows := []model.Item{
		{ID: "b", Position: 1},
		{ID: "a", Position: 0},
	}
	c.Refresh(rows)
	first := orderIDs(c.Items())
	c.Refresh(rows)
	if got := orderIDs(c.Items()); !sameOrder(first, got) {
		t.Fatalf("same input twice must display the same order: %v vs %v", first, got)
	}
	if !sameOrder(first, []string{"a", "b"}) {
		t.Fatalf("display order must follow positions, got=%v", first)
	}
}

func TestSameListDropAppliesProvisionalAndPublishes(t *testing.T) {
	broker := registry.NewBroker()
	sink := &captureSink{}
	c := newTestController(broker, sink, "todo")
	c.Refresh(items("todo", "a", "b", "c"))

	if err := c.PointerDown("a"); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	if err := c.BeginDrag(); err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	entry, ok := broker.Active()
	if !ok {
		t.Fatal("begin drag must publish the entry")
	}

	res, applied := c.ReceiveDrop(*entry, model.DropTarget{ListID: "todo", TargetItemID: "c", Zone: model.ZoneAfter})
	if !applied {
		t.Fatalf("drop must apply, got=%+v", res)
	}
	if got := orderIDs(c.Items()); !sameOrder(got, []string{"b", "c", "a"}) {
		t.Fatalf("provisional order must display immediately, got=%v", got)
	}
	if len(sink.batches) != 1 || len(sink.batches[0]) != 3 {
		t.Fatalf("expected one batch of 3 records, got=%+v", sink.batches)
	}

	c.FinishDrop()
	if _, ok := broker.Active(); ok {
		t.Fatal("finishing the drop must clear the broker")
	}

	// Authoritative refresh with the persisted order collapses the overlay.
	c.Refresh(items("todo", "b", "c", "a"))
	if got := orderIDs(c.Items()); !sameOrder(got, []string{"b", "c", "a"}) {
		t.Fatalf("refresh after drop, got=%v", got)
	}
}

func TestRejectedTransferLeavesTargetUntouched(t *testing.T) {
	broker := registry.NewBroker()
	sink := &captureSink{}
	src := newTestController(broker, sink, "todo") // no allowed targets
	tgt := newTestController(broker, sink, "done")
	src.Refresh(items("todo", "a"))
	tgt.Refresh(items("done", "x"))

	_ = src.PointerDown("a")
	_ = src.BeginDrag()
	entry, _ := broker.Active()

	if tgt.HoverAllowed(entry) {
		t.Fatal("empty allowed set must deny the hover")
	}
	res, applied := tgt.ReceiveDrop(*entry, model.DropTarget{ListID: "done", TargetItemID: "x", Zone: model.ZoneBefore})
	if applied || !res.NoOp || len(res.Records) != 0 {
		t.Fatalf("rejected drop must be a zero-record no-op, got=%+v", res)
	}
	if got := orderIDs(tgt.Items()); !sameOrder(got, []string{"x"}) {
		t.Fatalf("rejected drop must not mutate the target, got=%v", got)
	}
	if len(sink.batches) != 0 {
		t.Fatalf("rejected drop must not publish, got=%+v", sink.batches)
	}
	src.FinishDrop()
	if _, ok := broker.Active(); ok {
		t.Fatal("cleanup after a rejected drop must still clear the broker")
	}
}

func TestCrossListDropUpdatesBothSides(t *testing.T) {
	broker := registry.NewBroker()
	sink := &captureSink{}
	src := newTestController(broker, sink, "todo", "done")
	tgt := newTestController(broker, sink, "done")
	src.Refresh(items("todo", "a", "b"))
	tgt.Refresh(items("done", "x"))

	_ = src.PointerDown("a")
	_ = src.BeginDrag()
	entry, _ := broker.Active()

	if !tgt.HoverAllowed(entry) {
		t.Fatal("listed target must accept the hover")
	}
	res, applied := tgt.ReceiveDrop(*entry, model.DropTarget{ListID: "done", TargetItemID: "x", Zone: model.ZoneAfter})
	if !applied {
		t.Fatalf("drop must apply, got=%+v", res)
	}
	if got := orderIDs(tgt.Items()); !sameOrder(got, []string{"x", "a"}) {
		t.Fatalf("target order, got=%v", got)
	}

	src.ApplySourceOrder(res.SourceOrder)
	if got := orderIDs(src.Items()); !sameOrder(got, []string{"b"}) {
		t.Fatalf("source must show the post-removal order, got=%v", got)
	}
	src.FinishDrop()
	if _, ok := broker.Active(); ok {
		t.Fatal("broker must be clear after the gesture")
	}
}

func TestSelfDropIsSilentNoOp(t *testing.T) {
	broker := registry.NewBroker()
	sink := &captureSink{}
	c := newTestController(broker, sink, "todo")
	c.Refresh(items("todo", "a", "b"))

	_ = c.PointerDown("a")
	_ = c.BeginDrag()
	entry, _ := broker.Active()

	res, applied := c.ReceiveDrop(*entry, model.DropTarget{ListID: "todo", TargetItemID: "a", Zone: model.ZoneAfter})
	if applied || !res.NoOp {
		t.Fatalf("self-drop must be a no-op, got=%+v", res)
	}
	if len(sink.batches) != 0 {
		t.Fatalf("self-drop must emit nothing, got=%+v", sink.batches)
	}
	if got := orderIDs(c.Items()); !sameOrder(got, []string{"a", "b"}) {
		t.Fatalf("self-drop must not mutate, got=%v", got)
	}
}

func TestToggleSelectDrivesMultiDragPayload(t *testing.T) {
	broker := registry.NewBroker()
	c := newTestController(broker, nil, "todo")
	c.Refresh(items("todo", "a", "b", "c"))

	c.ToggleSelect("c")
	c.ToggleSelect("a")
	c.ToggleSelect("ghost") // unknown ids are ignored
	if !c.Selected("c") || !c.Selected("a") || c.Selected("b") {
		t.Fatalf("selection wrong: %v", c.Selection())
	}
	c.ToggleSelect("c")
	if c.Selected("c") {
		t.Fatal("second toggle must deselect")
	}
	c.ToggleSelect("c")

	// Pressing a selected item drags the whole selection.
	_ = c.PointerDown("a")
	_ = c.BeginDrag()
	entry, _ := broker.Active()
	if !sameOrder(entry.MovedItemIDs, []string{"a", "c"}) {
		t.Fatalf("drag payload must be the selection in selection order, got=%v", entry.MovedItemIDs)
	}
	c.EndDrag()
}

func TestSelectionClearedByDrop(t *testing.T) {
	broker := registry.NewBroker()
	c := newTestController(broker, nil, "todo")
	c.Refresh(items("todo", "a", "b", "c"))
	c.ToggleSelect("a")

	_ = c.PointerDown("a")
	_ = c.BeginDrag()
	entry, _ := broker.Active()
	if _, applied := c.ReceiveDrop(*entry, model.DropTarget{ListID: "todo", TargetItemID: "c", Zone: model.ZoneAfter}); !applied {
		t.Fatal("drop must apply")
	}
	if len(c.Selection()) != 0 {
		t.Fatalf("completed drop must clear the selection, got=%v", c.Selection())
	}
	c.FinishDrop()
}

func TestPointerDownUnknownItem(t *testing.T) {
	c := newTestController(registry.NewBroker(), nil, "todo")
	c.Refresh(items("todo", "a"))
	if err := c.PointerDown("ghost"); err == nil {
		t.Fatal("pointer down on an unknown item must fail")
	}
}

func TestEndDragFromEveryState(t *testing.T) {
	broker := registry.NewBroker()
	c := newTestController(broker, nil, "todo")
	c.Refresh(items("todo", "a", "b"))

	// Idle: nothing to do.
	c.EndDrag()

	// Armed (plain click).
	_ = c.PointerDown("a")
	c.EndDrag()
	if _, ok := broker.Active(); ok {
		t.Fatal("disarm must not touch the broker")
	}

	// Active.
	_ = c.PointerDown("a")
	_ = c.BeginDrag()
	c.EndDrag()
	if _, ok := broker.Active(); ok {
		t.Fatal("cancel must clear the broker")
	}
	if got := orderIDs(c.Items()); !sameOrder(got, []string{"a", "b"}) {
		t.Fatalf("cancel must not reorder, got=%v", got)
	}
}
