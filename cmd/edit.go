package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewEditCmd() *cobra.Command {
	var (
		newTitle   string
		newContent string
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Update the focused note",
		Long: `Update the title or body of a note. Without an id the currently
focused note is edited. Fields not given keep their value.

Examples:
  nk edit --title "better name"
  nk edit 4f21 --content "rewritten body"
  cat draft.md | nk edit 4f21`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if len(args) > 0 {
				if _, err := sess.OpenNote(args[0]); err != nil {
					return fmt.Errorf("open note: %w", err)
				}
			}

			note, ok := sess.Focused()
			if !ok || note.IsFolder() {
				return fmt.Errorf("no note focused; pass an id or open one first")
			}

			title := note.Title
			if cmd.Flags().Changed("title") {
				title = newTitle
			}
			content := note.Content
			if cmd.Flags().Changed("content") {
				content = newContent
			} else if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}

			saved, err := sess.Save(title, content)
			if err != nil {
				return fmt.Errorf("save note: %w", err)
			}
			config.SaveState(sess)

			fmt.Printf("Saved %s (%s)\n", saved.Title, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&newTitle, "title", "", "New title")
	cmd.Flags().StringVarP(&newContent, "content", "c", "", "New body")

	return cmd
}
