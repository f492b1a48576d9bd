package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewListCmd() *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list [filter]",
		Short:   "List the contents of the current folder",
		Aliases: []string{"ls"},
		Long: `List notes and folders in the current folder.

Folders sort first, then notes, newest first. An optional filter keeps
items whose title or content contains it (case-insensitive).

Examples:
  nk list              # Everything in the current folder
  nk list meeting      # Only items matching "meeting"
  nk list --json       # Machine-readable output`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}

			items := sess.List(filter)
			if listJSON {
				return outputJSON(items)
			}

			crumbs, err := breadcrumbString(sess)
			if err != nil {
				return fmt.Errorf("resolve breadcrumb: %w", err)
			}
			fmt.Println(crumbs)
			if len(items) == 0 {
				fmt.Println("(empty)")
				return nil
			}
			printItemsTable(items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	return cmd
}
