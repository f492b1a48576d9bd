package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/nav"
	"github.com/mattsolo1/notekeep/pkg/search"
	"github.com/mattsolo1/notekeep/pkg/storage"
	"github.com/mattsolo1/notekeep/pkg/store"
)

var (
	ErrNoFocus  = errors.New("nothing is focused")
	ErrNotANote = errors.New("item is not a note")
)

// Session is the lifecycle controller: it owns the store, orchestrates
// every create/open/edit/delete against it, and triggers a full document
// save for each mutation that must survive a restart. The collection is
// rehydrated once per session.
//
// Focus is either nothing, a draft note being composed in the current
// folder, an existing note open for editing, or a folder being browsed
// (read-only).
type Session struct {
	store *store.Store
	docs  *storage.DocumentStore
	index *search.Index
	nav   *nav.Navigator
	log   *logrus.Logger

	focusedID string // "" while unfocused or drafting
	draft     bool
}

// Option configures a session
type Option func(*Session)

// WithIndex attaches a full-text index that is kept in step with saves.
// Index failures never fail a mutation; they are logged and the index can
// be rebuilt later.
func WithIndex(idx *search.Index) Option {
	return func(s *Session) { s.index = idx }
}

// WithLogger overrides the logrus standard logger
func WithLogger(log *logrus.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession rehydrates the collection from docs and positions the cursor
// at root. If the root level has a note, the first one (in display order)
// is opened, matching the behavior users see at startup.
func NewSession(docs *storage.DocumentStore, opts ...Option) *Session {
	s := &Session{
		docs: docs,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = store.FromItems(docs.Load())
	s.nav = nav.New(s.store)

	if first, ok := s.firstNoteInCurrentFolder(); ok {
		s.focusedID = first.ID
	}
	return s
}

// Store exposes the collection for read-only inspection (doctor, export)
func (s *Session) Store() *store.Store {
	return s.store
}

// List returns the current folder's children, filtered and display-ordered
func (s *Session) List(filter string) []models.Item {
	return s.nav.List(filter)
}

// Breadcrumb returns the folder chain from root to the cursor
func (s *Session) Breadcrumb() ([]models.Item, error) {
	return s.nav.Breadcrumb()
}

// CurrentFolderID returns the navigation cursor, nil at root
func (s *Session) CurrentFolderID() *string {
	return s.nav.CurrentFolderID()
}

// Focused returns the focused item, if any
func (s *Session) Focused() (models.Item, bool) {
	if s.focusedID == "" {
		return models.Item{}, false
	}
	return s.store.GetByID(s.focusedID)
}

// CanEdit reports whether the editing surface is live: composing a draft
// or focused on an existing note. Browsing a folder disables it.
func (s *Session) CanEdit() bool {
	if s.draft {
		return true
	}
	it, ok := s.Focused()
	return ok && !it.IsFolder()
}

// Navigate moves the cursor to a folder (nil for root) and clears any edit
// focus; folder contents are browsed, not edited.
func (s *Session) Navigate(folderID *string) {
	s.nav.NavigateTo(folderID)
	s.draft = false
	if cur := s.nav.CurrentFolderID(); cur != nil {
		s.focusedID = *cur
	} else {
		s.focusedID = ""
	}
}

// OpenNote focuses an existing note for editing
func (s *Session) OpenNote(id string) (models.Item, error) {
	it, ok := s.store.GetByID(id)
	if !ok {
		return models.Item{}, store.ErrNotFound
	}
	if it.IsFolder() {
		return models.Item{}, fmt.Errorf("open %s: %w", id, ErrNotANote)
	}
	s.focusedID = it.ID
	s.draft = false
	return it, nil
}

// NewDraft clears focus into a fresh draft inside the current folder. The
// draft has no id; the next Save commits it.
func (s *Session) NewDraft() {
	s.focusedID = ""
	s.draft = true
}

// Save commits the editing surface. While drafting or browsing a folder it
// creates a brand-new note in the current folder; with a note focused it
// updates that note's title, content and updatedAt in place. Either way the
// entire collection is persisted before the call returns, and focus moves
// to the saved note. On a persistence failure the store is rolled back so
// a retry is safe.
func (s *Session) Save(title, content string) (models.Item, error) {
	focused, hasFocus := s.Focused()

	if !hasFocus || focused.IsFolder() {
		item := models.NewNote(title, content, s.nav.CurrentFolderID())
		if err := s.store.Insert(item); err != nil {
			return models.Item{}, err
		}
		if err := s.persist(); err != nil {
			_ = s.store.Remove(item.ID)
			return models.Item{}, err
		}
		s.focusedID = item.ID
		s.draft = false
		s.reindex(item)
		item, _ = s.store.GetByID(item.ID)
		return item, nil
	}

	prev := focused
	err := s.store.Update(focused.ID, func(it *models.Item) {
		if title == "" {
			title = models.DefaultNoteTitle
		}
		it.Title = title
		it.Content = content
		it.UpdatedAt = models.Now()
	})
	if err != nil {
		return models.Item{}, err
	}
	if err := s.persist(); err != nil {
		_ = s.store.Update(prev.ID, func(it *models.Item) { *it = prev })
		return models.Item{}, err
	}
	saved, _ := s.store.GetByID(focused.ID)
	s.reindex(saved)
	return saved, nil
}

// CreateFolder inserts a folder under the current folder, persists, and
// navigates into it. A blank title gets the folder default.
func (s *Session) CreateFolder(title string) (models.Item, error) {
	item := models.NewFolder(title, s.nav.CurrentFolderID())
	if err := s.store.Insert(item); err != nil {
		return models.Item{}, err
	}
	if err := s.persist(); err != nil {
		_ = s.store.Remove(item.ID)
		return models.Item{}, err
	}
	s.reindex(item)
	s.Navigate(&item.ID)
	return item, nil
}

// Delete removes the focused item. Folders that still have children are
// refused with a store.NotEmptyError carrying the child count; nothing is
// cascaded. After a successful delete the first remaining note in the
// current folder takes focus, or focus clears.
func (s *Session) Delete() error {
	focused, ok := s.Focused()
	if !ok {
		return ErrNoFocus
	}

	if err := s.store.Remove(focused.ID); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		_ = s.store.Insert(focused)
		return err
	}

	if s.index != nil {
		if err := s.index.RemoveItem(focused.ID); err != nil {
			s.log.WithError(err).Warn("failed to remove item from search index")
		}
	}

	// A deleted folder may have been the cursor; re-resolve before looking
	// for the next note to focus.
	s.nav.NavigateTo(s.nav.CurrentFolderID())
	s.draft = false
	if first, ok := s.firstNoteInCurrentFolder(); ok {
		s.focusedID = first.ID
	} else {
		s.focusedID = ""
	}
	return nil
}

// Move re-parents an item under a folder (nil for root). The store refuses
// targets that are missing, not folders, or inside the item's own subtree.
func (s *Session) Move(id string, newParent *string) error {
	prev, ok := s.store.GetByID(id)
	if !ok {
		return store.ErrNotFound
	}
	if err := s.store.Reparent(id, newParent); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		_ = s.store.Update(id, func(it *models.Item) { *it = prev })
		return err
	}
	moved, _ := s.store.GetByID(id)
	s.reindex(moved)
	return nil
}

// TogglePin flips the pinned flag. Pinned is a display hint only: it does
// not bump updatedAt and has no effect on ordering.
func (s *Session) TogglePin(id string) (models.Item, error) {
	prev, ok := s.store.GetByID(id)
	if !ok {
		return models.Item{}, store.ErrNotFound
	}
	_ = s.store.Update(id, func(it *models.Item) { it.Pinned = !it.Pinned })
	if err := s.persist(); err != nil {
		_ = s.store.Update(id, func(it *models.Item) { *it = prev })
		return models.Item{}, err
	}
	it, _ := s.store.GetByID(id)
	s.reindex(it)
	return it, nil
}

// SearchAll queries the full-text index across the whole collection,
// ignoring the cursor.
func (s *Session) SearchAll(query, itemType string, limit int) ([]models.Item, error) {
	if s.index == nil {
		return nil, errors.New("search index is disabled")
	}
	return s.index.Search(query, &search.Options{Type: itemType, Limit: limit})
}

// RebuildIndex re-derives the full-text index from the collection
func (s *Session) RebuildIndex() error {
	if s.index == nil {
		return nil
	}
	return s.index.Rebuild(s.store.Items())
}

// persist writes the whole collection through the document store
func (s *Session) persist() error {
	_, err := s.docs.Save(s.store.Items())
	return err
}

func (s *Session) reindex(it models.Item) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexItem(it); err != nil {
		s.log.WithError(err).WithField("id", it.ID).Warn("failed to index item")
	}
}

func (s *Session) firstNoteInCurrentFolder() (models.Item, bool) {
	for _, it := range s.nav.List("") {
		if !it.IsFolder() {
			return it, true
		}
	}
	return models.Item{}, false
}
