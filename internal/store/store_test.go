package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sortable-cli/internal/model"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func mustAdd(t *testing.T, s Store, listID, title string) model.Item {
	t.Helper()
	it, err := s.AddItem(context.Background(), listID, title)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return it
}

func TestAddItemAppendsAtEnd(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := mustAdd(t, s, "todo", "First")
	b := mustAdd(t, s, "todo", "Second")
	if a.Position != 0 || b.Position != 1 {
		t.Fatalf("positions wrong: %d, %d", a.Position, b.Position)
	}

	items, err := s.ItemsForList(ctx, "todo")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != b.ID {
		t.Fatalf("order wrong: %+v", items)
	}
	if items[0].Title != "First" {
		t.Fatalf("title did not persist: %+v", items[0])
	}
}

func TestAddItemValidation(t *testing.T) {
	s := testStore(t)
	if _, err := s.AddItem(context.Background(), "", "x"); err == nil {
		t.Fatal("missing list id must fail")
	}
	if _, err := s.AddItem(context.Background(), "todo", "  "); err == nil {
		t.Fatal("blank title must fail")
	}
}

func TestRemoveItem(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	it := mustAdd(t, s, "todo", "Doomed")

	if err := s.RemoveItem(ctx, it.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, err := s.ItemsForList(ctx, "todo")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("item still present: %+v", items)
	}
	if err := s.RemoveItem(ctx, it.ID); err == nil {
		t.Fatal("removing a missing item must fail")
	}
}

func TestApplyBatchReorders(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a := mustAdd(t, s, "todo", "A")
	b := mustAdd(t, s, "todo", "B")
	c := mustAdd(t, s, "todo", "C")

	// Drag A after C: every index changes.
	batch := model.ChangeBatch{
		{ItemID: a.ID, NewIndex: model.IndexOf(2), SourceListID: "todo", TargetListID: "todo", DropType: model.ZoneAfter, TargetItemID: c.ID},
		{ItemID: b.ID, NewIndex: model.IndexOf(0), SourceListID: "todo", TargetListID: "todo"},
		{ItemID: c.ID, NewIndex: model.IndexOf(1), SourceListID: "todo", TargetListID: "todo"},
	}
	if err := s.ApplyBatch(ctx, batch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	items, err := s.ItemsForList(ctx, "todo")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	want := []string{b.ID, c.ID, a.ID}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("expected order %v, got=%+v", want, items)
		}
		if items[i].Position != i {
			t.Fatalf("positions not dense: %+v", items)
		}
	}
}

func TestApplyBatchMovesAcrossLists(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a := mustAdd(t, s, "todo", "A")
	mustAdd(t, s, "done", "X")

	batch := model.ChangeBatch{
		{ItemID: a.ID, NewIndex: model.IndexOf(1), SourceListID: "todo", TargetListID: "done", DropType: model.ZoneAfter, TargetItemID: "x"},
	}
	if err := s.ApplyBatch(ctx, batch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	todo, _ := s.ItemsForList(ctx, "todo")
	if len(todo) != 0 {
		t.Fatalf("source list still holds the item: %+v", todo)
	}
	done, _ := s.ItemsForList(ctx, "done")
	if len(done) != 2 || done[1].ID != a.ID || done[1].ListID != "done" {
		t.Fatalf("target list wrong: %+v", done)
	}
}

func TestApplyBatchAttachesOnNullIndex(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a := mustAdd(t, s, "todo", "A")
	x := mustAdd(t, s, "done", "X")

	batch := model.ChangeBatch{
		{ItemID: a.ID, NewIndex: nil, SourceListID: "todo", TargetListID: "done", DropType: model.ZoneOn, TargetItemID: x.ID},
	}
	if err := s.ApplyBatch(ctx, batch); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Attached items leave the top-level view of both lists.
	todo, _ := s.ItemsForList(ctx, "todo")
	done, _ := s.ItemsForList(ctx, "done")
	if len(todo) != 0 || len(done) != 1 {
		t.Fatalf("attached item still top-level: todo=%+v done=%+v", todo, done)
	}

	attached, err := s.AttachedTo(ctx, x.ID)
	if err != nil {
		t.Fatalf("attached: %v", err)
	}
	if len(attached) != 1 || attached[0].ID != a.ID {
		t.Fatalf("attachment wrong: %+v", attached)
	}
	counts, err := s.AttachmentCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[x.ID] != 1 {
		t.Fatalf("counts wrong: %v", counts)
	}

	// A later reorder of the attached item clears the attachment.
	if err := s.ApplyBatch(ctx, model.ChangeBatch{
		{ItemID: a.ID, NewIndex: model.IndexOf(0), SourceListID: "done", TargetListID: "todo", DropType: model.ZoneAfter},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if attached, _ := s.AttachedTo(ctx, x.ID); len(attached) != 0 {
		t.Fatalf("reorder must detach: %+v", attached)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	s := testStore(t)
	batch := model.ChangeBatch{
		{ItemID: "a", NewIndex: model.IndexOf(0), SourceListID: "todo", TargetListID: "done", DropType: model.ZoneAfter},
	}
	e, err := s.AppendJournal(batch)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.ID == "" || len(e.Records) != 1 {
		t.Fatalf("entry wrong: %+v", e)
	}
	if _, err := s.AppendJournal(batch); err != nil {
		t.Fatalf("second append: %v", err)
	}

	entries, err := s.ReadJournal()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got=%+v", entries)
	}
	if entries[0].ID != e.ID {
		t.Fatalf("append order lost: %+v", entries)
	}
	if entries[0].Records[0].ItemID != "a" {
		t.Fatalf("records did not round-trip: %+v", entries[0])
	}
}

func TestReadJournalSkipsGarbageLines(t *testing.T) {
	s := testStore(t)
	if _, err := s.AppendJournal(model.ChangeBatch{{ItemID: "a", NewIndex: model.IndexOf(0)}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(filepath.Join(s.Dir, journalFileName), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not json\n\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()
	if _, err := s.AppendJournal(model.ChangeBatch{{ItemID: "b", NewIndex: model.IndexOf(1)}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := s.ReadJournal()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("garbage lines must be skipped, got=%+v", entries)
	}
}

func TestReadJournalMissingFile(t *testing.T) {
	s := testStore(t)
	entries, err := s.ReadJournal()
	if err != nil || entries != nil {
		t.Fatalf("missing journal must read as empty, got=%v err=%v", entries, err)
	}
}

func TestBatchSinkJournalsThenApplies(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a := mustAdd(t, s, "todo", "A")
	b := mustAdd(t, s, "todo", "B")

	sink := BatchSink{Store: s}
	if err := sink.Publish(model.ChangeBatch{
		{ItemID: a.ID, NewIndex: model.IndexOf(1), SourceListID: "todo", TargetListID: "todo", DropType: model.ZoneAfter, TargetItemID: b.ID},
		{ItemID: b.ID, NewIndex: model.IndexOf(0), SourceListID: "todo", TargetListID: "todo"},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	items, _ := s.ItemsForList(ctx, "todo")
	if len(items) != 2 || items[0].ID != b.ID {
		t.Fatalf("batch not applied: %+v", items)
	}
	entries, _ := s.ReadJournal()
	if len(entries) != 1 {
		t.Fatalf("batch not journaled: %+v", entries)
	}
}

func TestBatchSinkEmptyBatchIsNoOp(t *testing.T) {
	s := testStore(t)
	if err := (BatchSink{Store: s}).Publish(nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if entries, _ := s.ReadJournal(); len(entries) != 0 {
		t.Fatalf("empty batch must not journal, got=%+v", entries)
	}
}

func TestSeedSkipsNonEmptyLists(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	mustAdd(t, s, "todo", "Existing")

	err := s.Seed(ctx, map[string][]string{
		"todo":  {"Seeded A", "Seeded B"},
		"doing": {"Seeded C"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	todo, _ := s.ItemsForList(ctx, "todo")
	if len(todo) != 1 || todo[0].Title != "Existing" {
		t.Fatalf("non-empty list must be left alone: %+v", todo)
	}
	doing, _ := s.ItemsForList(ctx, "doing")
	if len(doing) != 1 || doing[0].Title != "Seeded C" {
		t.Fatalf("empty list must be seeded: %+v", doing)
	}
}

func TestDiscoverDirWalksUp(t *testing.T) {
	root := t.TempDir()
	boardDir := filepath.Join(root, ".sortable")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(boardDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, ok := DiscoverDir(nested)
	if !ok || found != boardDir {
		t.Fatalf("DiscoverDir=%q ok=%v, want %q", found, ok, boardDir)
	}
	if _, ok := DiscoverDir(t.TempDir()); ok {
		t.Fatal("discovery without a .sortable dir must fail")
	}
}
