package model

import (
	"sort"
	"strings"
)

// DropZone describes drop intent relative to a hovered target item.
type DropZone string

const (
	ZoneBefore DropZone = "before"
	ZoneOn     DropZone = "on"
	ZoneAfter  DropZone = "after"
)

// FilterMode selects which change records a completed drop emits.
type FilterMode string

const (
	// FilterFullChange emits every record, including pure re-index records.
	FilterFullChange FilterMode = "fullChange"
	// FilterTargetOnly emits only records that carry a drop type (items the
	// user actually dragged).
	FilterTargetOnly FilterMode = "targetOnly"
)

// Item is one entry of an ordered list.
//
// Position is the external ordering key and is authoritative; array order of
// a freshly supplied collection means nothing until sorted by position.
type Item struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	ListID   string `json:"listId"`

	// Display metadata carried along from the data source. Ignored by all
	// ordering arithmetic.
	Title string `json:"title,omitempty"`
}

// ListSnapshot is an immutable ordered view of one list. It is rebuilt in
// full whenever the external data source changes; engine output never
// mutates a snapshot in place.
type ListSnapshot struct {
	ListID         string   `json:"listId"`
	AllowedTargets []string `json:"allowedTargets,omitempty"`
	Items          []Item   `json:"items"`
}

// NewListSnapshot builds a snapshot from externally supplied items.
// Items are sorted strictly by position (ties broken by id so the order is
// total); supplied array order is discarded.
func NewListSnapshot(listID string, allowedTargets []string, items []Item) ListSnapshot {
	sorted := append([]Item{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})
	listID = strings.TrimSpace(listID)
	for i := range sorted {
		sorted[i].ListID = listID
	}
	return ListSnapshot{
		ListID:         listID,
		AllowedTargets: append([]string{}, allowedTargets...),
		Items:          sorted,
	}
}

// Handle is the inbound data-source contract: an opaque item handle exposing
// a string identifier and, optionally, a numeric position.
type Handle interface {
	ID() string
	// Position returns the external ordering key. ok=false means the source
	// carries no position for this handle; the supplied collection order is
	// used instead.
	Position() (int, bool)
}

// TitledHandle is implemented by sources that also carry display titles.
type TitledHandle interface {
	Handle
	Title() string
}

// SnapshotFromHandles adapts a data-source collection into a ListSnapshot.
// Handles without positions take their index in the supplied collection.
func SnapshotFromHandles(listID string, allowedTargets []string, handles []Handle) ListSnapshot {
	items := make([]Item, 0, len(handles))
	for i, h := range handles {
		if h == nil {
			continue
		}
		id := strings.TrimSpace(h.ID())
		if id == "" {
			continue
		}
		pos, ok := h.Position()
		if !ok {
			pos = i
		}
		it := Item{ID: id, Position: pos, ListID: listID}
		if th, ok := h.(TitledHandle); ok {
			it.Title = th.Title()
		}
		items = append(items, it)
	}
	return NewListSnapshot(listID, allowedTargets, items)
}

// Index returns the index of id in the snapshot order, or -1.
func (s ListSnapshot) Index(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the item with the given id.
func (s ListSnapshot) Find(id string) (Item, bool) {
	i := s.Index(id)
	if i < 0 {
		return Item{}, false
	}
	return s.Items[i], true
}

// IDs returns the item ids in snapshot order.
func (s ListSnapshot) IDs() []string {
	out := make([]string, 0, len(s.Items))
	for i := range s.Items {
		out = append(out, s.Items[i].ID)
	}
	return out
}

// Clone returns a deep copy. Snapshots are treated as immutable; clone before
// deriving a provisional order from one.
func (s ListSnapshot) Clone() ListSnapshot {
	return ListSnapshot{
		ListID:         s.ListID,
		AllowedTargets: append([]string{}, s.AllowedTargets...),
		Items:          append([]Item{}, s.Items...),
	}
}

// DropTarget is the transient hover state: which item the pointer is over and
// which zone is active. An empty TargetItemID means "drop onto the empty
// list". Recomputed on every hover update, cleared on drag end.
type DropTarget struct {
	ListID       string   `json:"listId"`
	TargetItemID string   `json:"targetItemId,omitempty"`
	Zone         DropZone `json:"zone"`
}
