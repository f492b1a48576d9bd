package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle an item's pinned flag",
		Long: `Toggle the pinned marker on a note or folder. Pinned items show a "*"
in listings; pinning does not change their position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			it, err := sess.TogglePin(args[0])
			if err != nil {
				return fmt.Errorf("pin: %w", err)
			}

			if it.Pinned {
				fmt.Printf("Pinned %s\n", it.Title)
			} else {
				fmt.Printf("Unpinned %s\n", it.Title)
			}
			return nil
		},
	}

	return cmd
}
