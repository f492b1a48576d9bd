package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ItemType discriminates the two kinds of entries in the collection
type ItemType string

const (
	TypeNote   ItemType = "note"
	TypeFolder ItemType = "folder"
)

// Default titles applied whenever an item arrives without one
const (
	DefaultNoteTitle   = "Untitled"
	DefaultFolderTitle = "New Folder"
)

// Item is a single entry in the forest. Notes and folders share one id
// space; Type tells them apart. ParentID is a logical foreign key, not a
// pointer into the tree: nil means root level.
type Item struct {
	ID        string   `json:"id"`
	Type      ItemType `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	ParentID  *string  `json:"parentId"`
	Pinned    bool     `json:"pinned"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// IsFolder reports whether the item is a folder
func (it Item) IsFolder() bool {
	return it.Type == TypeFolder
}

// Now returns the current time in milliseconds since epoch, the unit all
// item timestamps use
func Now() int64 {
	return time.Now().UnixMilli()
}

// NewID generates a fresh opaque item id
func NewID() string {
	return uuid.NewString()
}

// NewNote creates a note with a fresh id and createdAt == updatedAt == now.
// An empty title gets the note default.
func NewNote(title, content string, parentID *string) Item {
	now := Now()
	if title == "" {
		title = DefaultNoteTitle
	}
	return Item{
		ID:        NewID(),
		Type:      TypeNote,
		Title:     title,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFolder creates a folder with a fresh id and createdAt == updatedAt == now.
// An empty title gets the folder default.
func NewFolder(title string, parentID *string) Item {
	now := Now()
	if title == "" {
		title = DefaultFolderTitle
	}
	return Item{
		ID:        NewID(),
		Type:      TypeFolder,
		Title:     title,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize coerces an item into well-formed shape. It is total and
// idempotent: unknown types become notes, missing timestamps become "now"
// so legacy records still sort sensibly, empty titles get the type default,
// and folders lose any content they carried. It never invents an id; brand
// new items get theirs from NewNote/NewFolder before insertion.
func Normalize(it Item) Item {
	if it.Type != TypeFolder {
		it.Type = TypeNote
	}
	if it.Title == "" {
		if it.Type == TypeFolder {
			it.Title = DefaultFolderTitle
		} else {
			it.Title = DefaultNoteTitle
		}
	}
	if it.Type == TypeFolder {
		it.Content = ""
	}
	now := Now()
	if it.CreatedAt <= 0 {
		it.CreatedAt = now
	}
	if it.UpdatedAt <= 0 {
		it.UpdatedAt = now
	}
	return it
}

// FromRecord builds a normalized Item from a loosely-typed record, the shape
// JSON decoding hands back for documents written by older versions or edited
// by hand. Every field is coerced individually; nothing here can fail.
func FromRecord(rec map[string]any) Item {
	it := Item{
		ID:    coerceString(rec["id"]),
		Type:  ItemType(coerceString(rec["type"])),
		Title: coerceString(rec["title"]),
	}
	if _, ok := rec["content"]; ok {
		it.Content = coerceString(rec["content"])
	}
	if pid := coerceString(rec["parentId"]); pid != "" {
		it.ParentID = &pid
	}
	it.Pinned = coerceBool(rec["pinned"])
	it.CreatedAt = coerceMillis(rec["createdAt"])
	it.UpdatedAt = coerceMillis(rec["updatedAt"])
	return Normalize(it)
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	default:
		return false
	}
}

func coerceMillis(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		ms, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return ms
	default:
		return 0
	}
}
