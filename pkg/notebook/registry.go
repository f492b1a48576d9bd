package notebook

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Registry tracks the named notebooks of an installation and which one is
// active. It lives in a small sqlite database under the base data
// directory; the default notebook maps onto the base directory itself so
// an installation that never touches the registry behaves exactly like a
// single-notebook one.
type Registry struct {
	db      *sql.DB
	baseDir string
}

// NewRegistry opens (or creates) the registry under baseDir
func NewRegistry(baseDir string) (*Registry, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(baseDir, "notebooks.db"))
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	r := &Registry{db: db, baseDir: baseDir}
	if err := r.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize registry: %w", err)
	}
	return r, nil
}

// init creates the database schema
func (r *Registry) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notebooks (
		name TEXT PRIMARY KEY,
		data_dir TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Add registers a notebook. An empty data directory defaults to a
// subdirectory of the base dir named after the notebook.
func (r *Registry) Add(n *Notebook) error {
	if n.DataDir == "" {
		n.DataDir = filepath.Join(r.baseDir, n.Name)
	}
	if err := n.Validate(); err != nil {
		return fmt.Errorf("validate notebook: %w", err)
	}

	now := time.Now()
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO notebooks (name, data_dir, active, created_at, last_used)
		VALUES (?, ?, 0, ?, ?)
	`, n.Name, n.DataDir, now, now)
	return err
}

// Get retrieves a notebook by name
func (r *Registry) Get(name string) (*Notebook, error) {
	n := &Notebook{}
	err := r.db.QueryRow(`
		SELECT name, data_dir, created_at, last_used
		FROM notebooks WHERE name = ?
	`, name).Scan(&n.Name, &n.DataDir, &n.CreatedAt, &n.LastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notebook not found: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// List returns all registered notebooks, most recently used first. The
// default notebook is always present in the result.
func (r *Registry) List() ([]*Notebook, error) {
	rows, err := r.db.Query(`
		SELECT name, data_dir, created_at, last_used
		FROM notebooks ORDER BY last_used DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notebooks []*Notebook
	hasDefault := false
	for rows.Next() {
		n := &Notebook{}
		if err := rows.Scan(&n.Name, &n.DataDir, &n.CreatedAt, &n.LastUsed); err != nil {
			return nil, err
		}
		if n.Name == DefaultName {
			hasDefault = true
		}
		notebooks = append(notebooks, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !hasDefault {
		notebooks = append(notebooks, r.defaultNotebook())
	}
	return notebooks, nil
}

// Active returns the notebook selected by Use, falling back to the
// default notebook when none has been selected.
func (r *Registry) Active() (*Notebook, error) {
	n := &Notebook{}
	err := r.db.QueryRow(`
		SELECT name, data_dir, created_at, last_used
		FROM notebooks WHERE active = 1
	`).Scan(&n.Name, &n.DataDir, &n.CreatedAt, &n.LastUsed)
	if err == sql.ErrNoRows {
		return r.defaultNotebook(), nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Use makes the named notebook the active one and stamps its last-used
// time. Switching to the default notebook registers it if needed.
func (r *Registry) Use(name string) (*Notebook, error) {
	if _, err := r.Get(name); err != nil {
		if name != DefaultName {
			return nil, err
		}
		if err := r.Add(r.defaultNotebook()); err != nil {
			return nil, err
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("UPDATE notebooks SET active = 0"); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE notebooks SET active = 1, last_used = ? WHERE name = ?",
		time.Now(), name,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Get(name)
}

// Remove unregisters a notebook. The default notebook cannot be removed,
// and removing the active notebook falls back to the default. The data
// directory on disk is left untouched.
func (r *Registry) Remove(name string) error {
	if name == DefaultName {
		return fmt.Errorf("the default notebook cannot be removed")
	}

	active, err := r.Active()
	if err != nil {
		return err
	}

	res, err := r.db.Exec("DELETE FROM notebooks WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notebook not found: %s", name)
	}

	if active.Name == name {
		_, err = r.Use(DefaultName)
	}
	return err
}

// Close closes the registry database
func (r *Registry) Close() error {
	return r.db.Close()
}

// defaultNotebook maps the default name onto the base directory itself,
// so installations that never use named notebooks keep their document
// where it has always been.
func (r *Registry) defaultNotebook() *Notebook {
	return &Notebook{Name: DefaultName, DataDir: r.baseDir}
}
