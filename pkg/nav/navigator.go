package nav

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/store"
)

// folding makes the filter match case-insensitive across scripts, not just
// ASCII.
var folding = cases.Fold()

// Navigator is a pure read view over the store plus a cursor: the folder
// whose contents are currently listed. nil cursor means root level.
type Navigator struct {
	store           *store.Store
	currentFolderID *string
}

// New creates a navigator positioned at root
func New(s *store.Store) *Navigator {
	return &Navigator{store: s}
}

// CurrentFolderID returns the cursor, nil at root
func (n *Navigator) CurrentFolderID() *string {
	return n.currentFolderID
}

// NavigateTo moves the cursor. An id that does not resolve to an existing
// folder falls back to root rather than failing; stale cursors are routine
// after deletions.
func (n *Navigator) NavigateTo(folderID *string) {
	if folderID != nil {
		it, ok := n.store.GetByID(*folderID)
		if !ok || !it.IsFolder() {
			folderID = nil
		}
	}
	n.currentFolderID = folderID
}

// List returns the current folder's children, filtered and ordered for
// display: folders before notes, then most recently updated first. A
// non-empty filter keeps items whose title — or, for notes, content —
// contains it, case-insensitively.
func (n *Navigator) List(filter string) []models.Item {
	items := n.store.ChildrenOf(n.effectiveFolder())

	q := folding.String(strings.TrimSpace(filter))
	if q != "" {
		matched := items[:0]
		for _, it := range items {
			if matches(it, q) {
				matched = append(matched, it)
			}
		}
		items = matched
	}

	SortItems(items)
	return items
}

// Breadcrumb returns the chain of folders from root down to the cursor,
// empty at root. A cycle in legacy data surfaces as store.ErrCycleDetected
// instead of hanging the walk.
func (n *Navigator) Breadcrumb() ([]models.Item, error) {
	cur := n.effectiveFolder()
	if cur == nil {
		return nil, nil
	}
	return n.store.PathTo(*cur)
}

// effectiveFolder resolves the cursor defensively: if the folder vanished
// since the cursor was set, listings scope to root.
func (n *Navigator) effectiveFolder() *string {
	if n.currentFolderID == nil {
		return nil
	}
	it, ok := n.store.GetByID(*n.currentFolderID)
	if !ok || !it.IsFolder() {
		return nil
	}
	return n.currentFolderID
}

// SortItems orders items for display: folders first, newest updatedAt
// first within each type, item id as the final tiebreak so the order is
// fully deterministic.
func SortItems(items []models.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		if a.UpdatedAt != b.UpdatedAt {
			return a.UpdatedAt > b.UpdatedAt
		}
		return a.ID < b.ID
	})
}

func matches(it models.Item, foldedQuery string) bool {
	if strings.Contains(folding.String(it.Title), foldedQuery) {
		return true
	}
	return !it.IsFolder() && strings.Contains(folding.String(it.Content), foldedQuery)
}
