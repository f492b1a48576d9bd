package notebook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultName is the notebook every installation starts with. It is always
// resolvable, even on a registry that has never been written to.
const DefaultName = "default"

// Notebook is one named note collection. Each notebook owns a data
// directory holding its document, backup, search index and session state,
// fully isolated from every other notebook.
type Notebook struct {
	Name      string    `json:"name"`
	DataDir   string    `json:"dataDir"`
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  time.Time `json:"lastUsed"`
}

// Validate checks the notebook configuration and expands a leading ~ in
// the data directory.
func (n *Notebook) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("notebook name cannot be empty")
	}
	if strings.ContainsAny(n.Name, "/\\") {
		return fmt.Errorf("notebook name %q cannot contain path separators", n.Name)
	}
	if n.DataDir == "" {
		return fmt.Errorf("notebook data directory cannot be empty")
	}

	if strings.HasPrefix(n.DataDir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		n.DataDir = filepath.Join(home, n.DataDir[1:])
	}
	return nil
}

// EnsureDataDir creates the notebook's data directory if needed
func (n *Notebook) EnsureDataDir() error {
	return os.MkdirAll(n.DataDir, 0755)
}
