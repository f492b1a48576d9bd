package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/storage"
	"github.com/mattsolo1/notekeep/pkg/store"
)

func newTestSession(t *testing.T) (*Session, *storage.DocumentStore) {
	t.Helper()
	docs := storage.NewDocumentStore(filepath.Join(t.TempDir(), "notes.json"), nil)
	return NewSession(docs), docs
}

func TestCreateFolderAndNoteScenario(t *testing.T) {
	sess, _ := newTestSession(t)

	work, err := sess.CreateFolder("Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", work.Title)

	// CreateFolder navigates into the new folder.
	require.NotNil(t, sess.CurrentFolderID())
	assert.Equal(t, work.ID, *sess.CurrentFolderID())

	sess.NewDraft()
	plan, err := sess.Save("Plan", "ship it")
	require.NoError(t, err)

	inside := sess.List("")
	require.Len(t, inside, 1)
	assert.Equal(t, plan.ID, inside[0].ID)

	sess.Navigate(nil)
	root := sess.List("")
	require.Len(t, root, 1)
	assert.Equal(t, work.ID, root[0].ID, "root must show only the Work folder")
}

func TestSaveEmptyTitleGetsDefault(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.NewDraft()
	note, err := sess.Save("", "the body survives exactly")
	require.NoError(t, err)

	assert.Equal(t, models.DefaultNoteTitle, note.Title)
	assert.Equal(t, "the body survives exactly", note.Content)
}

func TestSaveUpdatesFocusedNoteInPlace(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.NewDraft()
	note, err := sess.Save("v1", "first")
	require.NoError(t, err)

	updated, err := sess.Save("v2", "second")
	require.NoError(t, err)

	assert.Equal(t, note.ID, updated.ID, "updating must not mint a new id")
	assert.Equal(t, "v2", updated.Title)
	assert.Equal(t, "second", updated.Content)
	assert.GreaterOrEqual(t, updated.UpdatedAt, note.UpdatedAt)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 1, sess.Store().Len())
}

func TestSaveWhileBrowsingFolderCreatesNote(t *testing.T) {
	sess, _ := newTestSession(t)

	folder, err := sess.CreateFolder("Work")
	require.NoError(t, err)

	// Focus is the folder (browse state); Save must create a new note
	// inside it, not touch the folder.
	note, err := sess.Save("From browse", "")
	require.NoError(t, err)

	assert.NotEqual(t, folder.ID, note.ID)
	require.NotNil(t, note.ParentID)
	assert.Equal(t, folder.ID, *note.ParentID)

	got, ok := sess.Store().GetByID(folder.ID)
	require.True(t, ok)
	assert.Equal(t, "Work", got.Title)
}

func TestSavePersists(t *testing.T) {
	sess, docs := newTestSession(t)

	sess.NewDraft()
	note, err := sess.Save("Durable", "content")
	require.NoError(t, err)

	// A fresh session over the same document sees the note.
	reloaded := NewSession(docs)
	got, ok := reloaded.Store().GetByID(note.ID)
	require.True(t, ok)
	assert.Equal(t, "Durable", got.Title)
}

func TestSessionAutoOpensFirstRootNote(t *testing.T) {
	sess, docs := newTestSession(t)
	sess.NewDraft()
	_, err := sess.Save("Hello", "")
	require.NoError(t, err)

	reloaded := NewSession(docs)
	focused, ok := reloaded.Focused()
	require.True(t, ok, "a root note should take focus at startup")
	assert.Equal(t, "Hello", focused.Title)
	assert.True(t, reloaded.CanEdit())
}

func TestDeleteRefusesNonEmptyFolder(t *testing.T) {
	sess, docs := newTestSession(t)

	folder, err := sess.CreateFolder("Full")
	require.NoError(t, err)
	sess.NewDraft()
	_, err = sess.Save("Inside", "")
	require.NoError(t, err)

	before, err := os.ReadFile(docs.Path())
	require.NoError(t, err)

	// Re-focus the folder and try to delete it.
	sess.Navigate(nil)
	sess.Navigate(&folder.ID)
	err = sess.Delete()

	var notEmpty *store.NotEmptyError
	require.ErrorAs(t, err, &notEmpty)
	assert.Equal(t, 1, notEmpty.Children)

	_, ok := sess.Store().GetByID(folder.ID)
	assert.True(t, ok, "refused deletion leaves the store unchanged")

	after, err := os.ReadFile(docs.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "refused deletion leaves the document unchanged")
}

func TestDeleteNoteFocusesNextNote(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.NewDraft()
	first, err := sess.Save("First", "")
	require.NoError(t, err)
	sess.NewDraft()
	second, err := sess.Save("Second", "")
	require.NoError(t, err)

	_, err = sess.OpenNote(second.ID)
	require.NoError(t, err)
	require.NoError(t, sess.Delete())

	focused, ok := sess.Focused()
	require.True(t, ok, "focus should move to the remaining note")
	assert.Equal(t, first.ID, focused.ID)

	require.NoError(t, sess.Delete())
	_, ok = sess.Focused()
	assert.False(t, ok, "deleting the last note clears focus")
}

func TestDeleteEmptyFolderReturnsCursorToParent(t *testing.T) {
	sess, _ := newTestSession(t)

	folder, err := sess.CreateFolder("Empty")
	require.NoError(t, err)
	require.NotNil(t, sess.CurrentFolderID())

	// The cursor sits inside the folder being deleted; afterwards it must
	// resolve somewhere valid (root, here).
	require.NoError(t, sess.Delete())
	assert.Nil(t, sess.CurrentFolderID())
	_, ok := sess.Store().GetByID(folder.ID)
	assert.False(t, ok)
}

func TestDeleteWithoutFocus(t *testing.T) {
	sess, _ := newTestSession(t)
	assert.ErrorIs(t, sess.Delete(), ErrNoFocus)
}

func TestNavigateClearsEditFocus(t *testing.T) {
	sess, _ := newTestSession(t)

	folder, err := sess.CreateFolder("Work")
	require.NoError(t, err)
	sess.Navigate(nil)

	sess.NewDraft()
	note, err := sess.Save("Editable", "")
	require.NoError(t, err)
	assert.True(t, sess.CanEdit())

	sess.Navigate(&folder.ID)
	assert.False(t, sess.CanEdit(), "browsing a folder disables the editing surface")

	_, err = sess.OpenNote(note.ID)
	require.NoError(t, err)
	assert.True(t, sess.CanEdit(), "re-opening the note restores editing")
}

func TestOpenNoteRejectsFolder(t *testing.T) {
	sess, _ := newTestSession(t)

	folder, err := sess.CreateFolder("Work")
	require.NoError(t, err)

	_, err = sess.OpenNote(folder.ID)
	assert.ErrorIs(t, err, ErrNotANote)

	_, err = sess.OpenNote("ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMove(t *testing.T) {
	sess, _ := newTestSession(t)

	folder, err := sess.CreateFolder("Work")
	require.NoError(t, err)
	sess.Navigate(nil)
	sess.NewDraft()
	note, err := sess.Save("Loose", "")
	require.NoError(t, err)

	require.NoError(t, sess.Move(note.ID, &folder.ID))
	moved, _ := sess.Store().GetByID(note.ID)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, folder.ID, *moved.ParentID)

	require.NoError(t, sess.Move(note.ID, nil))
	moved, _ = sess.Store().GetByID(note.ID)
	assert.Nil(t, moved.ParentID)
}

func TestMoveRejectsCycle(t *testing.T) {
	sess, _ := newTestSession(t)

	outer, err := sess.CreateFolder("Outer")
	require.NoError(t, err)
	inner, err := sess.CreateFolder("Inner")
	require.NoError(t, err)

	err = sess.Move(outer.ID, &inner.ID)
	assert.ErrorIs(t, err, store.ErrCycleDetected)
}

func TestTogglePin(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.NewDraft()
	note, err := sess.Save("Pin me", "")
	require.NoError(t, err)

	pinned, err := sess.TogglePin(note.ID)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)
	assert.Equal(t, note.UpdatedAt, pinned.UpdatedAt, "pinning is a display hint, not an edit")

	unpinned, err := sess.TogglePin(note.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)
}

func TestSessionToleratesDamagedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	docs := storage.NewDocumentStore(path, nil)
	sess := NewSession(docs)
	assert.Zero(t, sess.Store().Len())

	// Working on top of the damaged document still functions; the first
	// save replaces it wholesale.
	sess.NewDraft()
	_, err := sess.Save("Fresh start", "")
	require.NoError(t, err)
}
