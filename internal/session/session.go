// Package session tracks the ephemeral state of one drag gesture, from
// pointer-down to drop or cancel.
package session

import (
	"errors"
	"strings"

	"sortable-cli/internal/model"
	"sortable-cli/internal/registry"
)

// State is the drag lifecycle position.
//
// Idle -> Armed (pointer down on an item) -> Active (drag confirmed,
// published) -> Hovering (target updates) -> Resolved (drop or cancel) -> Idle.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateActive
	StateHovering
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateActive:
		return "active"
	case StateHovering:
		return "hovering"
	case StateResolved:
		return "resolved"
	}
	return "unknown"
}

var (
	ErrNotIdle   = errors.New("drag already in progress")
	ErrNotArmed  = errors.New("no armed drag to activate")
	ErrNotActive = errors.New("no active drag")
)

// Session is one gesture's state. It is created per list instance and reused
// across gestures; all per-gesture fields reset on resolve or cancel.
type Session struct {
	instanceID string
	broker     *registry.Broker

	state        State
	sourceListID string
	movedIDs     []string
	snapshot     model.ListSnapshot
	allowed      []string

	hover    model.DropTarget
	hasHover bool
}

// New returns an idle session owned by the given list instance.
func New(instanceID string, broker *registry.Broker) *Session {
	return &Session{instanceID: strings.TrimSpace(instanceID), broker: broker}
}

func (s *Session) State() State { return s.state }

// MovedItemIDs returns the drag payload in drag order.
func (s *Session) MovedItemIDs() []string { return append([]string{}, s.movedIDs...) }

// Snapshot returns the source list membership captured at drag start.
func (s *Session) Snapshot() model.ListSnapshot { return s.snapshot }

// Arm records a pointer-down on an item. When multi-select is enabled and the
// pressed item is part of the current selection, the whole selection (in
// selection order) becomes the drag payload; otherwise just the item itself.
func (s *Session) Arm(itemID string, selection []string, multiSelect bool) error {
	if s.state != StateIdle {
		return ErrNotIdle
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return errors.New("missing item id")
	}

	payload := []string{itemID}
	if multiSelect {
		for _, sel := range selection {
			if strings.TrimSpace(sel) == itemID {
				payload = append([]string{}, selection...)
				break
			}
		}
	}
	s.movedIDs = payload
	s.state = StateArmed
	return nil
}

// Disarm returns to idle from an armed press that never became a drag
// (plain click).
func (s *Session) Disarm() {
	if s.state == StateArmed {
		s.reset()
	}
}

// Activate confirms the drag: the full source list is snapshotted (needed to
// re-index survivors after removal) and the session is published to the
// shared broker so other instances can see it.
func (s *Session) Activate(snapshot model.ListSnapshot) error {
	if s.state != StateArmed {
		return ErrNotArmed
	}
	s.sourceListID = snapshot.ListID
	s.snapshot = snapshot.Clone()
	s.allowed = append([]string{}, snapshot.AllowedTargets...)

	if s.broker != nil {
		err := s.broker.Publish(s.instanceID, registry.Entry{
			SourceListID:   s.sourceListID,
			MovedItemIDs:   s.MovedItemIDs(),
			AllowedTargets: append([]string{}, s.allowed...),
			SourceSnapshot: s.snapshot,
		})
		if err != nil {
			s.reset()
			return err
		}
	}
	s.state = StateActive
	return nil
}

// Hover records a target update. It reports whether the hover actually
// changed; redundant "still hovering the same target" updates are debounced
// so callers can skip recomputation. Hover state is advisory only.
func (s *Session) Hover(t model.DropTarget) (changed bool, err error) {
	if s.state != StateActive && s.state != StateHovering {
		return false, ErrNotActive
	}
	if s.hasHover && s.hover == t {
		return false, nil
	}
	s.hover = t
	s.hasHover = true
	s.state = StateHovering
	return true, nil
}

// CurrentHover returns the last recorded drop target, if any.
func (s *Session) CurrentHover() (model.DropTarget, bool) {
	return s.hover, s.hasHover
}

// Resolve consumes the session at drop time. Exactly one consume per
// gesture: the drag data is returned and the session returns to idle with
// the broker entry cleared, whatever the drop's outcome.
func (s *Session) Resolve() (sourceSnapshot model.ListSnapshot, movedIDs []string, err error) {
	if s.state != StateActive && s.state != StateHovering {
		return model.ListSnapshot{}, nil, ErrNotActive
	}
	s.state = StateResolved
	snapshot := s.snapshot
	moved := s.MovedItemIDs()
	s.reset()
	return snapshot, moved, nil
}

// Cancel discards the gesture with no output. Every abort path (escape, drop
// outside a recognized target, rejected transfer) funnels here so cleanup is
// identical to a successful drop.
func (s *Session) Cancel() {
	if s.state == StateIdle {
		return
	}
	s.reset()
}

func (s *Session) reset() {
	if s.broker != nil {
		_ = s.broker.Clear(s.instanceID)
	}
	s.state = StateIdle
	s.sourceListID = ""
	s.movedIDs = nil
	s.snapshot = model.ListSnapshot{}
	s.allowed = nil
	s.hover = model.DropTarget{}
	s.hasHover = false
}
