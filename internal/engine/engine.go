// Package engine computes new list orders and change records for a resolved
// drop. Everything here is pure: inputs are snapshots and the drag state, the
// output is a fresh order plus the records an external persistence layer
// needs. No snapshot is ever mutated in place.
package engine

import (
	"strings"

	"sortable-cli/internal/model"
)

// Request is one resolved, non-cancelled drop.
type Request struct {
	// Source is the source list's full membership captured at drag start.
	Source model.ListSnapshot
	// Target is the drop list's current contents. For same-list drops this
	// is the current order of the source list itself.
	Target model.ListSnapshot
	// DraggedIDs are the moved items in drag order.
	DraggedIDs []string
	// Drop is the resolved drop target.
	Drop model.DropTarget
	// Filter selects the emitted record set. Applied once, at the very end.
	Filter model.FilterMode
}

// Result is the engine's output: fresh orders for the affected lists plus the
// change records describing what must be persisted.
type Result struct {
	// NoOp is true when the drop resolves to nothing: self-drop, missing
	// target, or an empty drag set. No records, no mutation.
	NoOp bool
	// TargetOrder is the new order of the drop list. For attach (zone=on)
	// drops it equals the pre-drop order.
	TargetOrder []model.Item
	// SourceOrder is the new order of the source list after removal.
	// Nil for same-list drops (TargetOrder covers the whole list).
	SourceOrder []model.Item
	// Records is the filtered change batch for this drop.
	Records model.ChangeBatch
}

// variant is the dispatch tag for the drop scenario. One variant per
// {list-empty, on, before/after} x {same-list, cross-list} combination keeps
// the dispatch exhaustive instead of nested conditionals.
type variant int

const (
	variantNoOp variant = iota
	variantSameOrder
	variantSameAttach
	variantCrossOrder
	variantCrossAttach
	variantCrossEmpty
)

func classify(req Request) variant {
	if len(req.DraggedIDs) == 0 {
		return variantNoOp
	}
	target := strings.TrimSpace(req.Drop.TargetItemID)
	for _, id := range req.DraggedIDs {
		if target != "" && id == target {
			// Dropping an item (or a selection containing it) onto itself.
			return variantNoOp
		}
	}

	same := req.Source.ListID == req.Target.ListID
	if !same && len(req.Target.Items) == 0 {
		// An empty target list is always the empty-list branch, never an
		// error, whatever zone was resolved.
		return variantCrossEmpty
	}

	if req.Drop.Zone == model.ZoneOn {
		if target == "" || req.Target.Index(target) < 0 {
			return variantNoOp
		}
		if same {
			return variantSameAttach
		}
		return variantCrossAttach
	}

	if target == "" || req.Target.Index(target) < 0 {
		return variantNoOp
	}
	if same {
		return variantSameOrder
	}
	return variantCrossOrder
}

// Plan dispatches on the drop scenario and computes the result.
func Plan(req Request) Result {
	var res Result
	switch classify(req) {
	case variantSameOrder:
		res = planSameOrder(req)
	case variantSameAttach:
		res = planSameAttach(req)
	case variantCrossOrder:
		res = planCrossOrder(req)
	case variantCrossAttach:
		res = planCrossAttach(req)
	case variantCrossEmpty:
		res = planCrossEmpty(req)
	default:
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	res.Records = res.Records.Filter(req.Filter)
	return res
}

// draggedItems resolves the drag set against a snapshot, preserving drag
// order and dropping ids the snapshot does not contain.
func draggedItems(from model.ListSnapshot, ids []string) []model.Item {
	out := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := from.Find(id); ok {
			out = append(out, it)
		}
	}
	return out
}

func draggedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// reindex stamps dense positions and the owning list onto a derived order.
func reindex(listID string, items []model.Item) []model.Item {
	out := append([]model.Item{}, items...)
	for i := range out {
		out[i].Position = i
		out[i].ListID = listID
	}
	return out
}

// planSameOrder reorders within one list for zone before/after.
//
// The dragged items are removed from the current order, spliced back as a
// contiguous run at the insertion point, and a record is emitted for every
// item whose resulting index differs from its pre-drop index.
func planSameOrder(req Request) Result {
	cur := req.Target.Items
	moved := draggedItems(req.Target, req.DraggedIDs)
	if len(moved) == 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	set := draggedSet(req.DraggedIDs)

	rest := make([]model.Item, 0, len(cur))
	for _, it := range cur {
		if !set[it.ID] {
			rest = append(rest, it)
		}
	}

	insertAt := indexOf(rest, req.Drop.TargetItemID)
	if insertAt < 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	if req.Drop.Zone == model.ZoneAfter {
		insertAt++
	}

	final := make([]model.Item, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved...)
	final = append(final, rest[insertAt:]...)

	listID := req.Target.ListID
	records := model.ChangeBatch{}
	// Dragged items first, in drag order.
	for _, it := range moved {
		ni := indexOf(final, it.ID)
		if ni == req.Target.Index(it.ID) {
			continue
		}
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     model.IndexOf(ni),
			SourceListID: listID,
			TargetListID: listID,
			DropType:     req.Drop.Zone,
			TargetItemID: req.Drop.TargetItemID,
		})
	}
	// Displaced neighbors, in final order.
	for i, it := range final {
		if set[it.ID] {
			continue
		}
		if i == req.Target.Index(it.ID) {
			continue
		}
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     model.IndexOf(i),
			SourceListID: listID,
			TargetListID: listID,
		})
	}

	if len(records) == 0 {
		return Result{NoOp: true, Records: records}
	}
	return Result{TargetOrder: reindex(listID, final), Records: records}
}

// planSameAttach handles zone=on within one list: no reordering occurs, the
// order stays exactly as before the gesture, and each dragged item emits one
// association record with a nil index.
func planSameAttach(req Request) Result {
	moved := draggedItems(req.Target, req.DraggedIDs)
	if len(moved) == 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	listID := req.Target.ListID
	records := make(model.ChangeBatch, 0, len(moved))
	for _, it := range moved {
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     nil,
			SourceListID: listID,
			TargetListID: listID,
			DropType:     model.ZoneOn,
			TargetItemID: req.Drop.TargetItemID,
		})
	}
	return Result{
		TargetOrder: append([]model.Item{}, req.Target.Items...),
		Records:     records,
	}
}

// sourceSurvivors re-indexes the items remaining in the source list densely
// 0..n-1 in their original relative order, emitting one record per survivor
// with source and target both set to the original source list.
func sourceSurvivors(req Request) ([]model.Item, model.ChangeBatch) {
	set := draggedSet(req.DraggedIDs)
	rest := make([]model.Item, 0, len(req.Source.Items))
	for _, it := range req.Source.Items {
		if !set[it.ID] {
			rest = append(rest, it)
		}
	}
	rest = reindex(req.Source.ListID, rest)
	records := make(model.ChangeBatch, 0, len(rest))
	for i, it := range rest {
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     model.IndexOf(i),
			SourceListID: req.Source.ListID,
			TargetListID: req.Source.ListID,
		})
	}
	return rest, records
}

// planCrossOrder moves items into a non-empty foreign list for before/after.
//
// The virtual merged order is [unmoved target items before the insertion
// point] + [dragged items in drag order] + [remaining target items]. Every
// dragged item emits a record; pre-existing target items emit one only when
// their index shifted.
func planCrossOrder(req Request) Result {
	cur := req.Target.Items
	moved := draggedItems(req.Source, req.DraggedIDs)
	if len(moved) == 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}

	insertAt := req.Target.Index(req.Drop.TargetItemID)
	if insertAt < 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	if req.Drop.Zone == model.ZoneAfter {
		insertAt++
	}

	merged := make([]model.Item, 0, len(cur)+len(moved))
	merged = append(merged, cur[:insertAt]...)
	merged = append(merged, moved...)
	merged = append(merged, cur[insertAt:]...)

	records := model.ChangeBatch{}
	for _, it := range moved {
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     model.IndexOf(indexOf(merged, it.ID)),
			SourceListID: req.Source.ListID,
			TargetListID: req.Target.ListID,
			DropType:     req.Drop.Zone,
			TargetItemID: req.Drop.TargetItemID,
		})
	}
	for i, it := range merged {
		if i < insertAt || i >= insertAt+len(moved) {
			if i == req.Target.Index(it.ID) {
				continue
			}
			records = append(records, model.ChangeRecord{
				ItemID:       it.ID,
				NewIndex:     model.IndexOf(i),
				SourceListID: req.Target.ListID,
				TargetListID: req.Target.ListID,
			})
		}
	}

	rest, restRecords := sourceSurvivors(req)
	records = append(records, restRecords...)

	return Result{
		TargetOrder: reindex(req.Target.ListID, merged),
		SourceOrder: rest,
		Records:     records,
	}
}

// planCrossEmpty drops into an empty foreign list: dragged items take
// sequential indices 0..k-1 in drag order with dropType "after".
func planCrossEmpty(req Request) Result {
	moved := draggedItems(req.Source, req.DraggedIDs)
	if len(moved) == 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	records := make(model.ChangeBatch, 0, len(moved))
	for i, it := range moved {
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     model.IndexOf(i),
			SourceListID: req.Source.ListID,
			TargetListID: req.Target.ListID,
			DropType:     model.ZoneAfter,
		})
	}
	rest, restRecords := sourceSurvivors(req)
	records = append(records, restRecords...)
	return Result{
		TargetOrder: reindex(req.Target.ListID, moved),
		SourceOrder: rest,
		Records:     records,
	}
}

// planCrossAttach associates dragged items onto a foreign target item. The
// target list's order is untouched; the source list still loses the items and
// its survivors are re-indexed.
func planCrossAttach(req Request) Result {
	moved := draggedItems(req.Source, req.DraggedIDs)
	if len(moved) == 0 {
		return Result{NoOp: true, Records: model.ChangeBatch{}}
	}
	records := make(model.ChangeBatch, 0, len(moved))
	for _, it := range moved {
		records = append(records, model.ChangeRecord{
			ItemID:       it.ID,
			NewIndex:     nil,
			SourceListID: req.Source.ListID,
			TargetListID: req.Target.ListID,
			DropType:     model.ZoneOn,
			TargetItemID: req.Drop.TargetItemID,
		})
	}
	rest, restRecords := sourceSurvivors(req)
	records = append(records, restRecords...)
	return Result{
		TargetOrder: append([]model.Item{}, req.Target.Items...),
		SourceOrder: rest,
		Records:     records,
	}
}

func indexOf(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
