package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/frontmatter"
	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/service"
	"github.com/mattsolo1/notekeep/pkg/store"
)

func NewExportCmd() *cobra.Command {
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole collection",
		Long: `Export a normalized snapshot of every note and folder. The json and
yaml formats write the document shape to stdout; the md format writes a
directory tree mirroring the folders, one markdown file per note with
its metadata as YAML frontmatter.

Examples:
  nk export > backup.json
  nk export --format yaml > backup.yaml
  nk export --format md --out ./notes-md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if format == "md" {
				if outDir == "" {
					return fmt.Errorf("the md format needs --out <dir>")
				}
				return exportMarkdown(sess, outDir)
			}

			items := sess.Store().Items()
			for i := range items {
				items[i] = models.Normalize(items[i])
			}
			snapshot := map[string][]models.Item{"notes": items}

			switch format {
			case "json":
				return outputJSON(snapshot)
			case "yaml":
				data, err := yaml.Marshal(snapshot)
				if err != nil {
					return fmt.Errorf("marshal yaml: %w", err)
				}
				fmt.Print(string(data))
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json, yaml or md)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or md")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for the md format")

	return cmd
}

// exportMarkdown writes one .md file per note, nested in directories that
// mirror the folder hierarchy.
func exportMarkdown(sess *service.Session, outDir string) error {
	count := 0
	for _, it := range sess.Store().Items() {
		if it.IsFolder() {
			continue
		}

		dir, err := folderPath(sess.Store(), outDir, it.ParentID)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		doc := frontmatter.BuildContent(frontmatter.FromItem(it), it.Content)
		name := fmt.Sprintf("%s-%s.md", slugify(it.Title), shortID(it.ID))
		if err := os.WriteFile(filepath.Join(dir, name), []byte(doc+"\n"), 0644); err != nil {
			return err
		}
		count++
	}

	fmt.Printf("Exported %d notes to %s\n", count, outDir)
	return nil
}

// folderPath maps a note's folder chain onto a directory path under base
func folderPath(s *store.Store, base string, parentID *string) (string, error) {
	if parentID == nil {
		return base, nil
	}
	chain, err := s.PathTo(*parentID)
	if err != nil {
		return "", fmt.Errorf("resolve folder path: %w", err)
	}
	parts := []string{base}
	for _, it := range chain {
		parts = append(parts, slugify(it.Title))
	}
	return filepath.Join(parts...), nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a title into a safe file name fragment
func slugify(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// shortID keeps file names unique across notes with equal titles
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
