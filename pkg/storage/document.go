package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/notekeep/pkg/models"
)

// ErrInvalidPayload is returned when a save is handed a collection that
// cannot legally reach disk, before any disk activity happens.
var ErrInvalidPayload = errors.New("invalid save payload")

// document is the on-disk shape: the collection wrapped under "notes".
type document struct {
	Notes []models.Item `json:"notes"`
}

// SaveResult reports the non-fatal outcomes of a save that succeeded.
// A backup that could not be taken is acceptable degradation, but the
// outcome stays observable instead of being swallowed.
type SaveResult struct {
	BackupErr error
}

// DocumentStore persists the whole collection to a single JSON document
// with a best-effort single-step backup beside it.
//
// Load degrades to an empty collection on any corruption and never touches
// the file. Save sanitizes every record, backs up the prior document, then
// writes atomically via a temp file and rename — either the whole new
// document lands or the previous content remains. Loads and saves against
// the same document are serialized by a mutex; there is no cancellation on
// a save once issued.
type DocumentStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Logger
}

// NewDocumentStore creates a store for the document at path. A nil logger
// falls back to the logrus standard logger.
func NewDocumentStore(path string, log *logrus.Logger) *DocumentStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DocumentStore{path: path, log: log}
}

// Path returns the primary document location
func (d *DocumentStore) Path() string {
	return d.path
}

// BackupPath returns the sibling location holding the pre-save snapshot
func (d *DocumentStore) BackupPath() string {
	if strings.HasSuffix(d.path, ".json") {
		return strings.TrimSuffix(d.path, ".json") + ".prev.json"
	}
	return d.path + ".prev"
}

// Load reads and normalizes the collection. It accepts both historical
// shapes — a bare array of records, or an object wrapping them under
// "notes" — and treats everything else, including a missing file or a
// parse failure, as an empty collection. A damaged document is preserved
// on disk for manual recovery, never overwritten here.
func (d *DocumentStore) Load() []models.Item {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := os.ReadFile(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.WithError(err).WithField("path", d.path).Warn("could not read notes document, starting empty")
		}
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		d.log.WithError(err).WithField("path", d.path).Warn("notes document is not valid JSON, starting empty")
		return nil
	}

	var records []any
	switch v := parsed.(type) {
	case []any:
		records = v
	case map[string]any:
		if notes, ok := v["notes"].([]any); ok {
			records = notes
		}
	}

	items := make([]models.Item, 0, len(records))
	for _, rec := range records {
		fields, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, models.FromRecord(fields))
	}
	return items
}

// Save writes the full collection. Every item passes through normalization
// first so no malformed record can reach disk, whatever the in-memory state
// looked like. On success the returned SaveResult carries the backup
// outcome; on failure nothing of the previous document has been lost.
func (d *DocumentStore) Save(items []models.Item) (SaveResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sanitized := make([]models.Item, 0, len(items))
	for _, it := range items {
		clean := models.Normalize(it)
		if clean.ID == "" {
			return SaveResult{}, fmt.Errorf("item %q has no id: %w", clean.Title, ErrInvalidPayload)
		}
		sanitized = append(sanitized, clean)
	}

	res := SaveResult{BackupErr: d.backup()}
	if res.BackupErr != nil {
		d.log.WithError(res.BackupErr).Warn("could not back up notes document before writing")
	}

	data, err := json.MarshalIndent(document{Notes: sanitized}, "", "  ")
	if err != nil {
		return SaveResult{}, fmt.Errorf("serialize notes: %w", err)
	}

	if err := d.writeAtomic(data); err != nil {
		return SaveResult{}, fmt.Errorf("write notes document: %w", err)
	}
	return res, nil
}

// backup copies the current primary document to the backup path. A missing
// primary is not an error; there is simply nothing to back up yet.
func (d *DocumentStore) backup() error {
	prev, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read previous document: %w", err)
	}
	if err := os.WriteFile(d.BackupPath(), prev, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// writeAtomic lands data at the primary path via temp file + rename so a
// crash mid-write can never leave a truncated document behind.
func (d *DocumentStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".notes-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
