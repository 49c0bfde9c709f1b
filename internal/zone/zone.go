// Package zone resolves which drop zone a pointer position activates over a
// target item's bounding rectangle.
package zone

import (
	"strings"

	"sortable-cli/internal/model"
)

// Mode forces a zone irrespective of pointer position, or lets the pointer
// decide (auto).
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeBefore Mode = "before"
	ModeOn     Mode = "on"
	ModeAfter  Mode = "after"
)

// ParseMode normalizes a configured mode string, defaulting to auto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBefore:
		return ModeBefore
	case ModeOn:
		return ModeOn
	case ModeAfter:
		return ModeAfter
	default:
		return ModeAuto
	}
}

// Rect is a target item's on-screen bounding rectangle. Only the vertical
// extent matters for zone resolution.
type Rect struct {
	Top    int
	Height int
}

// Resolve maps a pointer Y coordinate within rect to a drop zone.
//
// A non-auto mode wins irrespective of pointer position. In auto mode the
// rectangle is split into two equal vertical bands (before/after) when "on"
// drops are disallowed, and three (before/on/after) when they are allowed.
// Always returns a defined zone.
func Resolve(r Rect, pointerY int, mode Mode, allowOn bool) model.DropZone {
	switch mode {
	case ModeBefore:
		return model.ZoneBefore
	case ModeOn:
		return model.ZoneOn
	case ModeAfter:
		return model.ZoneAfter
	}

	h := r.Height
	if h < 1 {
		h = 1
	}
	rel := pointerY - r.Top
	if rel < 0 {
		rel = 0
	}
	if rel >= h {
		rel = h - 1
	}

	if !allowOn {
		if rel*2 < h {
			return model.ZoneBefore
		}
		return model.ZoneAfter
	}

	switch {
	case rel*3 < h:
		return model.ZoneBefore
	case rel*3 < 2*h:
		return model.ZoneOn
	default:
		return model.ZoneAfter
	}
}
