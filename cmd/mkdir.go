package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewMkdirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir [title]",
		Short: "Create a folder and enter it",
		Long: `Create a folder inside the current folder, then move the cursor
into it. Without a title the folder is created as "New Folder".`,
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

			folder, err := sess.CreateFolder(title)
			if err != nil {
				return fmt.Errorf("create folder: %w", err)
			}
			config.SaveState(sess)

			fmt.Printf("Created folder %s (%s)\n", folder.Title, folder.ID)
			return nil
		},
	}

	return cmd
}
