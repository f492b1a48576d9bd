package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/storage"
)

func NewDoctorCmd() *cobra.Command {
	var doctorFix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the notes document for integrity issues",
		Long: `The doctor command scans the notes document for structural problems
the normal load path tolerates silently.

Issues it can detect and fix:
- Duplicate item ids
- Parent references to items that do not exist
- Parent references to notes (only folders may have children)
- Cycles in the parent chain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewLogger()
			docs := storage.NewDocumentStore(filepath.Join(config.DataDir(), "notes.json"), log)
			items := docs.Load()

			fmt.Println("🏥 Running notes doctor...")
			fmt.Println()

			issues := 0
			fixed := 0

			// Duplicate ids: the load path keeps the first record and the
			// store silently drops the rest.
			seen := make(map[string]int)
			var deduped []models.Item
			for _, it := range items {
				seen[it.ID]++
				if seen[it.ID] == 1 {
					deduped = append(deduped, it)
				}
			}
			for id, n := range seen {
				if n > 1 {
					issues++
					fmt.Printf("❗ id %s appears %d times\n", id, n)
					if doctorFix {
						fmt.Printf("   ✅ Keeping the first record, dropping %d\n", n-1)
						fixed++
					}
				}
			}
			if doctorFix {
				items = deduped
			}

			byID := make(map[string]models.Item, len(items))
			for _, it := range items {
				byID[it.ID] = it
			}

			reRoot := func(i int, reason string) {
				issues++
				fmt.Printf("❗ %s %q (%s): %s\n", items[i].Type, items[i].Title, items[i].ID, reason)
				if doctorFix {
					items[i].ParentID = nil
					fmt.Println("   ✅ Moved to root")
					fixed++
				}
			}

			for i, it := range items {
				if it.ParentID == nil {
					continue
				}
				parent, ok := byID[*it.ParentID]
				switch {
				case !ok:
					reRoot(i, fmt.Sprintf("parent %s does not exist", *it.ParentID))
				case !parent.IsFolder():
					reRoot(i, fmt.Sprintf("parent %s is a note", *it.ParentID))
				default:
					// Bounded walk up the chain; revisiting the start means
					// the item sits inside a parent cycle.
					cur := it
					for depth := 0; cur.ParentID != nil; depth++ {
						if depth > len(items) {
							reRoot(i, "parent chain contains a cycle")
							break
						}
						next, ok := byID[*cur.ParentID]
						if !ok {
							break
						}
						if next.ID == it.ID {
							reRoot(i, "parent chain contains a cycle")
							break
						}
						cur = next
					}
				}
			}

			fmt.Println()
			if issues == 0 {
				fmt.Println("✅ No issues found")
				return nil
			}

			if doctorFix {
				if _, err := docs.Save(items); err != nil {
					return fmt.Errorf("write repaired document: %w", err)
				}
				fmt.Printf("Fixed %d of %d issue(s)\n", fixed, issues)
			} else {
				fmt.Printf("Found %d issue(s); run with --fix to repair\n", issues)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&doctorFix, "fix", false, "Automatically fix issues")

	return cmd
}
