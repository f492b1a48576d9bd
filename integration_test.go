//go:build integration

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/notebook"
)

// run executes one CLI invocation against the test data directory
func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func loadDocument(t *testing.T, dataDir string) []models.Item {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dataDir, "notes.json"))
	require.NoError(t, err)

	var doc struct {
		Notes []models.Item `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc.Notes
}

func TestIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	dataDir := t.TempDir()
	t.Setenv("NK_DATA_DIR", dataDir)

	t.Run("CreateAndList", func(t *testing.T) {
		require.NoError(t, run(t, "mkdir", "Work"))
		require.NoError(t, run(t, "new", "Plan", "--content", "ship it"))

		items := loadDocument(t, dataDir)
		require.Len(t, items, 2)

		byTitle := make(map[string]models.Item)
		for _, it := range items {
			byTitle[it.Title] = it
		}
		work, ok := byTitle["Work"]
		require.True(t, ok)
		assert.Equal(t, models.TypeFolder, work.Type)

		plan, ok := byTitle["Plan"]
		require.True(t, ok)
		require.NotNil(t, plan.ParentID, "mkdir enters the folder, so the note lands inside it")
		assert.Equal(t, work.ID, *plan.ParentID)
		assert.Equal(t, "ship it", plan.Content)
	})

	t.Run("BackupAfterSecondWrite", func(t *testing.T) {
		require.NoError(t, run(t, "new", "Another", "--content", "x"))
		_, err := os.Stat(filepath.Join(dataDir, "notes.prev.json"))
		assert.NoError(t, err, "a second save leaves a backup of the prior document")
	})

	t.Run("DeleteRefusesNonEmptyFolder", func(t *testing.T) {
		require.NoError(t, run(t, "cd", "/"))

		var workID string
		for _, it := range loadDocument(t, dataDir) {
			if it.Title == "Work" {
				workID = it.ID
			}
		}
		require.NotEmpty(t, workID)

		err := run(t, "rm", workID, "--yes")
		require.Error(t, err)

		items := loadDocument(t, dataDir)
		assert.Len(t, items, 3, "the refused delete must not change the document")
	})

	t.Run("ExportMarkdown", func(t *testing.T) {
		outDir := t.TempDir()
		require.NoError(t, run(t, "export", "--format", "md", "--out", outDir))

		_, err := os.Stat(filepath.Join(outDir, "work"))
		assert.NoError(t, err, "folders become directories")
	})

	t.Run("NotebookRegistry", func(t *testing.T) {
		reg, err := notebook.NewRegistry(dataDir)
		require.NoError(t, err)
		defer reg.Close()

		active, err := reg.Active()
		require.NoError(t, err)
		assert.Equal(t, notebook.DefaultName, active.Name)
		assert.Equal(t, dataDir, active.DataDir)
	})
}
