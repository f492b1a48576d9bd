package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/frontmatter"
	"github.com/mattsolo1/notekeep/pkg/storage"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import markdown files as notes",
		Long: `Import every .md file under a directory into the root of the active
notebook. Files with YAML frontmatter keep their title, pinned flag and
timestamps; plain files get their name as the title. A file whose
frontmatter id already exists in the collection is skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewLogger()
			docs := storage.NewDocumentStore(filepath.Join(config.DataDir(), "notes.json"), log)
			items := docs.Load()

			existing := make(map[string]bool, len(items))
			for _, it := range items {
				existing[it.ID] = true
			}

			imported := 0
			skipped := 0
			err := filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
					return nil
				}

				raw, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				fm, body, err := frontmatter.Parse(string(raw))
				if err != nil {
					log.WithError(err).WithField("file", path).Warn("skipping file with bad frontmatter")
					skipped++
					return nil
				}
				if fm == nil {
					name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
					fm = &frontmatter.Frontmatter{Title: name}
				}

				it := frontmatter.ToItem(fm, strings.TrimPrefix(body, "\n"), nil)
				if existing[it.ID] {
					skipped++
					return nil
				}

				items = append(items, it)
				existing[it.ID] = true
				imported++
				return nil
			})
			if err != nil {
				return err
			}

			if imported > 0 {
				if _, err := docs.Save(items); err != nil {
					return fmt.Errorf("write document: %w", err)
				}
			}

			fmt.Printf("Imported %d notes", imported)
			if skipped > 0 {
				fmt.Printf(" (%d skipped)", skipped)
			}
			fmt.Println()
			return nil
		},
	}

	return cmd
}
