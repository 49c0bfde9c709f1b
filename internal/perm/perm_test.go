package perm

import "testing"

func TestTransferAllowedEmptySetDenies(t *testing.T) {
	p := Default()
	if p.TransferAllowed("todo", "done", nil) {
		t.Fatal("nil allowed targets must deny cross-list transfer")
	}
	if p.TransferAllowed("todo", "done", []string{}) {
		t.Fatal("empty allowed targets must deny cross-list transfer")
	}
}

func TestTransferAllowedMembership(t *testing.T) {
	p := Default()
	allowed := []string{"doing", "done"}
	if !p.TransferAllowed("todo", "done", allowed) {
		t.Fatal("listed target must be allowed")
	}
	if p.TransferAllowed("todo", "archive", allowed) {
		t.Fatal("unlisted target must be denied")
	}
}

func TestTransferAllowedSelfImplicit(t *testing.T) {
	p := Policy{SelfImplicit: true}
	if !p.TransferAllowed("todo", "todo", nil) {
		t.Fatal("same-list transfer must bypass the allowed set when implicit")
	}

	p = Policy{SelfImplicit: false}
	if p.TransferAllowed("todo", "todo", nil) {
		t.Fatal("same-list transfer must be gated when not implicit")
	}
	if !p.TransferAllowed("todo", "todo", []string{"todo"}) {
		t.Fatal("self-listing must allow same-list transfer even when not implicit")
	}
}

func TestTransferAllowedTrimsWhitespace(t *testing.T) {
	p := Default()
	if !p.TransferAllowed("todo", "done", []string{" done "}) {
		t.Fatal("allowed targets must be compared trimmed")
	}
	if p.TransferAllowed("", "done", []string{"done"}) {
		t.Fatal("blank source list must deny")
	}
	if p.TransferAllowed("todo", "", []string{"done"}) {
		t.Fatal("blank target list must deny")
	}
}
