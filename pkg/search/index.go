package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/notekeep/pkg/models"
)

// Index is a sqlite-backed full-text index over the collection. It is a
// derived structure: the JSON document stays the source of truth, and the
// index can be rebuilt from it at any time.
type Index struct {
	db     *sql.DB
	useFTS bool
}

// NewIndex opens (or creates) the index database at dbPath
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// init creates the database schema
func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	metaSchema := `
	CREATE TABLE IF NOT EXISTS items_meta (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		parent_id TEXT,
		title TEXT,
		content TEXT,
		pinned BOOLEAN,
		created_at INTEGER,
		updated_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_items_meta_parent ON items_meta(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_meta_type ON items_meta(type);
	`

	if _, err := idx.db.Exec(metaSchema); err != nil {
		return err
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			id UNINDEXED,
			title,
			content,
			tokenize = 'porter unicode61'
		);
		`
		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// No FTS5 in this sqlite build; LIKE queries still work.
			idx.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support probes whether the FTS5 module is compiled in
func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// IndexItem indexes or reindexes one item
func (idx *Index) IndexItem(it models.Item) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.deleteInTx(tx, it.ID); err != nil {
		return err
	}

	var parent any
	if it.ParentID != nil {
		parent = *it.ParentID
	}

	if idx.useFTS {
		_, err = tx.Exec(`
			INSERT INTO items_fts (id, title, content)
			VALUES (?, ?, ?)
		`, it.ID, it.Title, it.Content)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO items_meta (id, type, parent_id, title, content, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, string(it.Type), parent, it.Title, it.Content, it.Pinned, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveItem drops an item from the index
func (idx *Index) RemoveItem(id string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.deleteInTx(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (idx *Index) deleteInTx(tx *sql.Tx, id string) error {
	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM items_fts WHERE id = ?", id); err != nil {
			return err
		}
	}
	_, err := tx.Exec("DELETE FROM items_meta WHERE id = ?", id)
	return err
}

// Rebuild replaces the whole index with the given collection
func (idx *Index) Rebuild(items []models.Item) error {
	if idx.useFTS {
		if _, err := idx.db.Exec("DELETE FROM items_fts"); err != nil {
			return err
		}
	}
	if _, err := idx.db.Exec("DELETE FROM items_meta"); err != nil {
		return err
	}
	for _, it := range items {
		if err := idx.IndexItem(it); err != nil {
			return fmt.Errorf("index item %s: %w", it.ID, err)
		}
	}
	return nil
}

// Options narrows a search
type Options struct {
	// ParentID restricts results to direct children of one folder;
	// an empty string means root level, nil means everywhere.
	ParentID *string
	// Type restricts to "note" or "folder".
	Type  string
	Limit int
}

// Search performs a full-text query over titles and content, ranked by
// relevance when FTS5 is available and by recency otherwise.
func (idx *Index) Search(query string, opts *Options) ([]models.Item, error) {
	if opts == nil {
		opts = &Options{Limit: 50}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	if idx.useFTS {
		return idx.searchWithFTS(query, opts)
	}
	return idx.searchWithoutFTS(query, opts)
}

func scopeConditions(opts *Options, col string) ([]string, []any) {
	var conditions []string
	var args []any

	if opts.ParentID != nil {
		if *opts.ParentID == "" {
			conditions = append(conditions, col+".parent_id IS NULL")
		} else {
			conditions = append(conditions, col+".parent_id = ?")
			args = append(args, *opts.ParentID)
		}
	}
	if opts.Type != "" {
		conditions = append(conditions, col+".type = ?")
		args = append(args, opts.Type)
	}
	return conditions, args
}

func (idx *Index) searchWithFTS(query string, opts *Options) ([]models.Item, error) {
	conditions, args := scopeConditions(opts, "m")

	whereClause := "WHERE"
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ") + " AND"
	}

	searchQuery := fmt.Sprintf(`
		SELECT m.id, m.type, m.parent_id, m.title, m.content, m.pinned, m.created_at, m.updated_at
		FROM items_fts f
		JOIN items_meta m ON f.id = m.id
		%s items_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, whereClause)

	args = append(args, query, opts.Limit)
	return idx.collect(searchQuery, args)
}

func (idx *Index) searchWithoutFTS(query string, opts *Options) ([]models.Item, error) {
	conditions, args := scopeConditions(opts, "items_meta")

	searchPattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	conditions = append(conditions, "(title LIKE ? OR content LIKE ?)")
	args = append(args, searchPattern, searchPattern)

	searchQuery := fmt.Sprintf(`
		SELECT id, type, parent_id, title, content, pinned, created_at, updated_at
		FROM items_meta
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)
	return idx.collect(searchQuery, args)
}

func (idx *Index) collect(query string, args []any) ([]models.Item, error) {
	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Item
	for rows.Next() {
		var it models.Item
		var parent sql.NullString
		err := rows.Scan(
			&it.ID, &it.Type, &parent, &it.Title, &it.Content,
			&it.Pinned, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if parent.Valid {
			pid := parent.String
			it.ParentID = &pid
		}
		results = append(results, it)
	}
	return results, rows.Err()
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
