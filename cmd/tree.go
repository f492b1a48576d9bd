package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/tree"
)

func NewTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [folder]",
		Short: "Print the folder hierarchy",
		Long: `Print the whole collection as a tree, or just the subtree of one
folder. The folder can be given by id, by its title in the current
folder, or as "/" for the root.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			var root *string
			label := rootLabel
			if len(args) > 0 {
				root, err = resolveFolder(sess, args[0])
				if err != nil {
					return err
				}
				if root != nil {
					it, _ := sess.Store().GetByID(*root)
					label = it.Title
				}
			}

			fmt.Println(label)
			fmt.Print(tree.Render(tree.Build(sess.Store(), root)))
			return nil
		},
	}

	return cmd
}
