// Package perm decides which lists may receive items from which other lists.
package perm

import "strings"

// Policy evaluates source-list to target-list transfers.
//
// SelfImplicit is the explicit same-list rule: when true, reordering within a
// list is always permitted without the list naming itself in its allowed
// targets. When false, same-list drops are gated like any other transfer.
type Policy struct {
	SelfImplicit bool
}

// Default returns the policy used when the configuration surface does not
// override it: same-list reordering implicitly allowed.
func Default() Policy { return Policy{SelfImplicit: true} }

// TransferAllowed reports whether items may move from sourceListID to
// targetListID given the source list's declared allowed targets.
//
// A list that declares no allowed targets sends nothing elsewhere: an empty
// or unset set always denies (subject only to the same-list rule above).
func (p Policy) TransferAllowed(sourceListID, targetListID string, allowedTargets []string) bool {
	sourceListID = strings.TrimSpace(sourceListID)
	targetListID = strings.TrimSpace(targetListID)
	if sourceListID == "" || targetListID == "" {
		return false
	}
	if p.SelfImplicit && sourceListID == targetListID {
		return true
	}
	for _, t := range allowedTargets {
		if strings.TrimSpace(t) == targetListID {
			return true
		}
	}
	return false
}
