package model

import "encoding/json"

// ChangeRecord describes one item's new placement, destined for external
// persistence. NewIndex is nil only for "on" (association) drops. DropType
// and TargetItemID are populated only for items the user actually dragged,
// never for items that were merely re-indexed as a side effect.
type ChangeRecord struct {
	ItemID       string   `json:"uuid"`
	NewIndex     *int     `json:"newIndex"`
	SourceListID string   `json:"sourceListId"`
	TargetListID string   `json:"targetListId"`
	DropType     DropZone `json:"dropType,omitempty"`
	TargetItemID string   `json:"targetItemUuid,omitempty"`
}

// Dragged reports whether the record describes an item the user dragged, as
// opposed to a pure re-index side effect.
func (r ChangeRecord) Dragged() bool { return r.DropType != "" }

// ChangeBatch is the set of change records emitted by one completed drop,
// serialized as a single JSON array on the outbound channel.
type ChangeBatch []ChangeRecord

// Filter applies the configured output filter. It is applied once, after the
// reordering computation, and never feeds back into it.
func (b ChangeBatch) Filter(mode FilterMode) ChangeBatch {
	if mode != FilterTargetOnly {
		return b
	}
	out := make(ChangeBatch, 0, len(b))
	for _, r := range b {
		if r.Dragged() {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON keeps an empty batch serializing as [] rather than null.
func (b ChangeBatch) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ChangeRecord(b))
}

// IndexOf is a convenience for building NewIndex pointers.
func IndexOf(i int) *int { return &i }
