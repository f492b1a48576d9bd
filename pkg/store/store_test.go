package store

import (
	"errors"
	"testing"

	"github.com/mattsolo1/notekeep/pkg/models"
)

func ptr(s string) *string { return &s }

func folder(id, title string, parent *string) models.Item {
	return models.Item{ID: id, Type: models.TypeFolder, Title: title, ParentID: parent, CreatedAt: 1, UpdatedAt: 1}
}

func note(id, title string, parent *string) models.Item {
	return models.Item{ID: id, Type: models.TypeNote, Title: title, ParentID: parent, CreatedAt: 1, UpdatedAt: 1}
}

func TestInsertAndGetByID(t *testing.T) {
	s := New()
	if err := s.Insert(note("n1", "First", nil)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, ok := s.GetByID("n1")
	if !ok {
		t.Fatal("Expected to find n1")
	}
	if got.Title != "First" {
		t.Errorf("Expected title First, got %s", got.Title)
	}

	if _, ok := s.GetByID("missing"); ok {
		t.Error("Expected missing id to not resolve")
	}
}

func TestInsertRejectsDuplicateAndEmptyID(t *testing.T) {
	s := New()
	if err := s.Insert(note("n1", "First", nil)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := s.Insert(note("n1", "Again", nil))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}

	err = s.Insert(note("", "No id", nil))
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
}

func TestChildrenOf(t *testing.T) {
	s := New()
	_ = s.Insert(folder("f1", "Work", nil))
	_ = s.Insert(note("n1", "Root note", nil))
	_ = s.Insert(note("n2", "Inside", ptr("f1")))
	_ = s.Insert(note("n3", "Also inside", ptr("f1")))

	root := s.ChildrenOf(nil)
	if len(root) != 2 {
		t.Errorf("Expected 2 items at root, got %d", len(root))
	}

	inside := s.ChildrenOf(ptr("f1"))
	if len(inside) != 2 {
		t.Errorf("Expected 2 items in f1, got %d", len(inside))
	}

	if n := len(s.ChildrenOf(ptr("missing"))); n != 0 {
		t.Errorf("Expected no children for unknown parent, got %d", n)
	}
}

func TestRemove(t *testing.T) {
	s := New()
	_ = s.Insert(note("n1", "First", nil))

	if err := s.Remove("n1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := s.GetByID("n1"); ok {
		t.Error("Expected n1 gone after Remove")
	}
	if err := s.Remove("n1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemoveRefusesNonEmptyFolder(t *testing.T) {
	s := New()
	_ = s.Insert(folder("f1", "Work", nil))
	_ = s.Insert(note("n1", "Inside", ptr("f1")))
	_ = s.Insert(note("n2", "Also", ptr("f1")))

	err := s.Remove("f1")
	var notEmpty *NotEmptyError
	if !errors.As(err, &notEmpty) {
		t.Fatalf("Expected NotEmptyError, got %v", err)
	}
	if notEmpty.Children != 2 {
		t.Errorf("Expected child count 2, got %d", notEmpty.Children)
	}
	if _, ok := s.GetByID("f1"); !ok {
		t.Error("Refused deletion must leave the folder in place")
	}

	// Emptying the folder makes it deletable.
	_ = s.Remove("n1")
	_ = s.Remove("n2")
	if err := s.Remove("f1"); err != nil {
		t.Errorf("Expected empty folder to delete, got %v", err)
	}
}

func TestPathTo(t *testing.T) {
	s := New()
	_ = s.Insert(folder("a", "A", nil))
	_ = s.Insert(folder("b", "B", ptr("a")))
	_ = s.Insert(note("n", "Deep", ptr("b")))

	chain, err := s.PathTo("n")
	if err != nil {
		t.Fatalf("PathTo failed: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("Expected chain of 3, got %d", len(chain))
	}
	for i, want := range []string{"a", "b", "n"} {
		if chain[i].ID != want {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i].ID, want)
		}
	}

	if _, err := s.PathTo("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPathToDanglingParentEndsChain(t *testing.T) {
	s := FromItems([]models.Item{note("n", "Orphan", ptr("ghost"))})

	chain, err := s.PathTo("n")
	if err != nil {
		t.Fatalf("PathTo failed: %v", err)
	}
	if len(chain) != 1 || chain[0].ID != "n" {
		t.Errorf("Expected orphan to resolve as root-level, got %v", chain)
	}
}

func TestPathToDetectsCycle(t *testing.T) {
	// a -> b -> a; only constructible through legacy data.
	s := FromItems([]models.Item{
		folder("a", "A", ptr("b")),
		folder("b", "B", ptr("a")),
	})

	_, err := s.PathTo("a")
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Expected ErrCycleDetected, got %v", err)
	}
}

func TestFromItemsSkipsDuplicatesAndEmptyIDs(t *testing.T) {
	s := FromItems([]models.Item{
		note("n1", "First", nil),
		note("n1", "Shadowed", nil),
		note("", "No id", nil),
	})

	if s.Len() != 1 {
		t.Fatalf("Expected 1 item, got %d", s.Len())
	}
	got, _ := s.GetByID("n1")
	if got.Title != "First" {
		t.Errorf("Expected the first record to win, got %s", got.Title)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	_ = s.Insert(note("n1", "Old", nil))

	err := s.Update("n1", func(it *models.Item) {
		it.Title = "New"
		it.ID = "hijack"
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, ok := s.GetByID("n1")
	if !ok {
		t.Fatal("Expected id to be stable across Update")
	}
	if got.Title != "New" {
		t.Errorf("Expected title New, got %s", got.Title)
	}
}

func TestUpdateReindexesParentChange(t *testing.T) {
	s := New()
	_ = s.Insert(folder("f1", "Work", nil))
	_ = s.Insert(note("n1", "Note", nil))

	_ = s.Update("n1", func(it *models.Item) { it.ParentID = ptr("f1") })

	if len(s.ChildrenOf(nil)) != 1 {
		t.Error("Expected n1 to leave the root listing")
	}
	if len(s.ChildrenOf(ptr("f1"))) != 1 {
		t.Error("Expected n1 under f1")
	}
}

func TestReparent(t *testing.T) {
	s := New()
	_ = s.Insert(folder("f1", "Work", nil))
	_ = s.Insert(folder("f2", "Sub", ptr("f1")))
	_ = s.Insert(note("n1", "Note", nil))

	tests := []struct {
		name    string
		id      string
		parent  *string
		wantErr error
	}{
		{"into folder", "n1", ptr("f1"), nil},
		{"back to root", "n1", nil, nil},
		{"missing item", "ghost", ptr("f1"), ErrNotFound},
		{"missing parent", "n1", ptr("ghost"), ErrInvalidParent},
		{"note as parent", "f2", ptr("n1"), ErrInvalidParent},
		{"into itself", "f1", ptr("f1"), ErrCycleDetected},
		{"into own subtree", "f1", ptr("f2"), ErrCycleDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Reparent(tt.id, tt.parent)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReparentBumpsUpdatedAt(t *testing.T) {
	s := New()
	_ = s.Insert(folder("f1", "Work", nil))
	_ = s.Insert(note("n1", "Note", nil))

	before, _ := s.GetByID("n1")
	if err := s.Reparent("n1", ptr("f1")); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	after, _ := s.GetByID("n1")
	if after.UpdatedAt <= before.UpdatedAt {
		t.Errorf("Expected updatedAt to move forward, %d -> %d", before.UpdatedAt, after.UpdatedAt)
	}
}
