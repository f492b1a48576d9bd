package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewNewCmd() *cobra.Command {
	var (
		noteContent string
		fromStdin   bool
	)

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a new note in the current folder",
		Long: `Create a new note in the current folder. Without a title the note
is created as "Untitled".

Examples:
  nk new "meeting notes"
  nk new "ideas" --content "first draft"

  # From stdin (auto-detected):
  echo "Quick thought" | nk new
  cat ideas.txt | nk new "imported ideas"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			title := ""
			if len(args) > 0 {
				title = args[0]
			}

			// Auto-detect piped stdin, same trick as reading from a shell
			// pipeline anywhere else.
			if !cmd.Flags().Changed("stdin") && !cmd.Flags().Changed("content") {
				stat, err := os.Stdin.Stat()
				if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
					fromStdin = true
				}
			}
			if fromStdin {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				noteContent = string(data)
			}

			sess.NewDraft()
			note, err := sess.Save(title, noteContent)
			if err != nil {
				return fmt.Errorf("save note: %w", err)
			}
			config.SaveState(sess)

			fmt.Printf("Created note %s (%s)\n", note.Title, note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note body")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read note body from stdin")

	return cmd
}
