package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open <id>",
		Short:   "Open a note and print it",
		Aliases: []string{"show", "cat"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			note, err := sess.OpenNote(args[0])
			if err != nil {
				return fmt.Errorf("open note: %w", err)
			}
			config.SaveState(sess)

			fmt.Printf("# %s\n\n%s\n", note.Title, note.Content)
			return nil
		},
	}

	return cmd
}
