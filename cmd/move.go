package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move <id> <folder>",
		Short:   "Move an item into another folder",
		Aliases: []string{"mv"},
		Long: `Move a note or folder under a different folder. The destination is a
folder id, the title of a folder in the current listing, or "/" for the
root level.

A folder can never be moved into itself or into one of its own
subfolders.

Examples:
  nk move 4f21 Work
  nk move 4f21 /`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			dest, err := resolveFolder(sess, args[1])
			if err != nil {
				return err
			}

			if err := sess.Move(args[0], dest); err != nil {
				return fmt.Errorf("move: %w", err)
			}
			config.SaveState(sess)

			destName := rootLabel
			if dest != nil {
				if folder, ok := sess.Store().GetByID(*dest); ok {
					destName = folder.Title
				}
			}
			fmt.Printf("Moved %s into %s\n", args[0], destName)
			return nil
		},
	}

	return cmd
}
