package store

import (
	"errors"
	"fmt"

	"github.com/mattsolo1/notekeep/pkg/models"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrDuplicateID   = errors.New("duplicate item id")
	ErrEmptyID       = errors.New("item has no id")
	ErrInvalidParent = errors.New("parent is not an existing folder")
	ErrCycleDetected = errors.New("cycle detected in parent chain")
)

// NotEmptyError is the structured refusal returned when deleting a folder
// that still has children. It is an expected outcome, not a failure path.
type NotEmptyError struct {
	ID       string
	Children int
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("folder %s is not empty (%d items)", e.ID, e.Children)
}

// Store holds the full collection in memory. It maintains two incremental
// indexes: id -> item and parent id -> child ids, so GetByID and ChildrenOf
// are O(1) and O(children) rather than scans of the whole collection.
// Insertion order is preserved for Items(), but display order is the
// navigation layer's job.
//
// None of the mutating methods persist anything; persistence is a separate
// concern layered on top.
type Store struct {
	byID     map[string]models.Item
	children map[string][]string
	order    []string
}

// New creates an empty store
func New() *Store {
	return &Store{
		byID:     make(map[string]models.Item),
		children: make(map[string][]string),
	}
}

// FromItems builds a store from an already-loaded collection. Records with
// a duplicate or empty id are skipped rather than rejected: the load path
// must tolerate damaged documents, and integrity problems are reported by
// the doctor, not here. Parent references are not validated for the same
// reason.
func FromItems(items []models.Item) *Store {
	s := New()
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, exists := s.byID[it.ID]; exists {
			continue
		}
		s.index(it)
	}
	return s
}

// Len returns the number of items in the collection
func (s *Store) Len() int {
	return len(s.order)
}

// Items returns a copy of the whole collection in insertion order
func (s *Store) Items() []models.Item {
	out := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// GetByID looks an item up by id. O(1) via the id index.
func (s *Store) GetByID(id string) (models.Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// ChildrenOf returns all items whose parentId equals the argument, nil
// meaning root level. The result is unsorted.
func (s *Store) ChildrenOf(parentID *string) []models.Item {
	ids := s.children[parentKey(parentID)]
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// PathTo returns the chain of items from the root ancestor down to id,
// inclusive. The walk follows parentId until nil; a parent reference that
// does not resolve ends the chain there, which makes dangling items
// effectively root-level. The walk is bounded by the collection size so
// legacy cyclic data reports ErrCycleDetected instead of hanging.
func (s *Store) PathTo(id string) ([]models.Item, error) {
	cur, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	var chain []models.Item
	for depth := 0; ; depth++ {
		if depth > len(s.byID) {
			return nil, fmt.Errorf("resolving path to %s: %w", id, ErrCycleDetected)
		}
		chain = append([]models.Item{cur}, chain...)
		if cur.ParentID == nil {
			return chain, nil
		}
		parent, ok := s.byID[*cur.ParentID]
		if !ok {
			return chain, nil
		}
		cur = parent
	}
}

// Insert adds a new item. The id must be present and unused; parent
// validation belongs to the operations that decide where items go.
func (s *Store) Insert(it models.Item) error {
	if it.ID == "" {
		return ErrEmptyID
	}
	if _, exists := s.byID[it.ID]; exists {
		return fmt.Errorf("insert %s: %w", it.ID, ErrDuplicateID)
	}
	s.index(it)
	return nil
}

// Remove deletes an item outright. There is no tombstoning: removal is
// immediate and total. Folders that still have children are refused with
// a NotEmptyError so the tree never loses a subtree implicitly.
func (s *Store) Remove(id string) error {
	it, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if it.IsFolder() {
		if n := len(s.children[id]); n > 0 {
			return &NotEmptyError{ID: id, Children: n}
		}
	}
	s.unindex(it)
	return nil
}

// Update applies mutator to the item in place. The id is pinned across the
// call; a mutator that changes ParentID is re-indexed, but Reparent is the
// validated way to move items. The caller is responsible for bumping
// UpdatedAt where the mutation warrants it.
func (s *Store) Update(id string, mutator func(*models.Item)) error {
	it, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	oldParent := it.ParentID
	mutator(&it)
	it.ID = id
	if parentKey(oldParent) != parentKey(it.ParentID) {
		s.removeChild(parentKey(oldParent), id)
		s.addChild(parentKey(it.ParentID), id)
	}
	s.byID[id] = it
	return nil
}

// Reparent moves an item under a new parent (nil for root), enforcing the
// structural invariants: the target must be an existing folder and the move
// must not make the item its own ancestor. UpdatedAt is bumped because
// membership changed.
func (s *Store) Reparent(id string, newParent *string) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	if newParent != nil {
		target, ok := s.byID[*newParent]
		if !ok || !target.IsFolder() {
			return fmt.Errorf("move %s under %s: %w", id, *newParent, ErrInvalidParent)
		}
		if *newParent == id {
			return fmt.Errorf("move %s into itself: %w", id, ErrCycleDetected)
		}
		// Walk up from the target; hitting the moved item means the target
		// is inside its subtree.
		cur := target
		for depth := 0; cur.ParentID != nil; depth++ {
			if depth > len(s.byID) {
				return fmt.Errorf("validating move of %s: %w", id, ErrCycleDetected)
			}
			if *cur.ParentID == id {
				return fmt.Errorf("move %s into its own subtree: %w", id, ErrCycleDetected)
			}
			next, ok := s.byID[*cur.ParentID]
			if !ok {
				break
			}
			cur = next
		}
	}
	return s.Update(id, func(it *models.Item) {
		it.ParentID = newParent
		it.UpdatedAt = models.Now()
	})
}

func (s *Store) index(it models.Item) {
	s.byID[it.ID] = it
	s.order = append(s.order, it.ID)
	s.addChild(parentKey(it.ParentID), it.ID)
}

func (s *Store) unindex(it models.Item) {
	delete(s.byID, it.ID)
	s.removeChild(parentKey(it.ParentID), it.ID)
	for i, id := range s.order {
		if id == it.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) addChild(key, id string) {
	s.children[key] = append(s.children[key], id)
}

func (s *Store) removeChild(key, id string) {
	ids := s.children[key]
	for i, c := range ids {
		if c == id {
			s.children[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.children[key]) == 0 {
		delete(s.children, key)
	}
}

// parentKey maps a nullable parent reference onto an index key. Item ids
// are never empty, so "" is free to stand for the root level.
func parentKey(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
