// Package registry is the cross-instance channel through which independent
// list instances see an in-flight drag. It is an explicit, injectable broker:
// instances subscribe for updates, only the instance that started a drag may
// publish or clear its entry, and the payload travels serialized so a
// malformed entry degrades to "no drag context" instead of failing.
package registry

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"sortable-cli/internal/model"
)

// Entry is the published description of an in-flight drag: everything a
// foreign list instance needs to evaluate a hover or resolve a drop.
type Entry struct {
	SourceListID   string             `json:"sourceListId"`
	MovedItemIDs   []string           `json:"movedItemIds"`
	AllowedTargets []string           `json:"allowedTargets,omitempty"`
	SourceSnapshot model.ListSnapshot `json:"sourceSnapshot"`
}

var (
	// ErrNotOwner is returned when an instance tries to publish over, or
	// clear, an entry another instance owns.
	ErrNotOwner = errors.New("drag entry owned by another instance")
)

// Broker holds at most one active drag entry. The zero value is not usable;
// construct with NewBroker and inject the same broker into every instance
// that should see the same drags.
type Broker struct {
	mu      sync.Mutex
	ownerID string
	payload []byte
	subs    map[int]func()
	nextSub int
}

func NewBroker() *Broker {
	return &Broker{subs: map[int]func(){}}
}

// Publish stores the entry for the given owning instance. A second publish by
// the same owner replaces the entry (e.g. drag restarted); a publish while
// another instance's drag is active is refused.
func (b *Broker) Publish(ownerID string, e Entry) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return errors.New("missing owner id")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.ownerID != "" && b.ownerID != ownerID {
		b.mu.Unlock()
		return ErrNotOwner
	}
	b.ownerID = ownerID
	b.payload = raw
	subs := b.snapshotSubs()
	b.mu.Unlock()

	notify(subs)
	return nil
}

// Clear removes the entry if ownerID owns it. Clearing when no drag is active
// is a no-op; stale entries from other owners are left alone.
func (b *Broker) Clear(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)

	b.mu.Lock()
	if b.ownerID == "" {
		b.mu.Unlock()
		return nil
	}
	if b.ownerID != ownerID {
		b.mu.Unlock()
		return ErrNotOwner
	}
	b.ownerID = ""
	b.payload = nil
	subs := b.snapshotSubs()
	b.mu.Unlock()

	notify(subs)
	return nil
}

// Active decodes the current entry. A missing or unparsable payload yields
// (nil, false): no drag context, drops not allowed.
func (b *Broker) Active() (*Entry, bool) {
	b.mu.Lock()
	raw := b.payload
	b.mu.Unlock()

	if len(raw) == 0 {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if strings.TrimSpace(e.SourceListID) == "" || len(e.MovedItemIDs) == 0 {
		return nil, false
	}
	return &e, true
}

// Subscribe registers fn to run after every publish or clear. The returned
// cancel func removes the subscription.
func (b *Broker) Subscribe(fn func()) (cancel func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// setRawForTest injects an arbitrary payload, bypassing Publish validation.
func (b *Broker) setRawForTest(ownerID string, raw []byte) {
	b.mu.Lock()
	b.ownerID = ownerID
	b.payload = raw
	b.mu.Unlock()
}

func (b *Broker) snapshotSubs() []func() {
	out := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func()) {
	for _, fn := range subs {
		if fn != nil {
			fn()
		}
	}
}
