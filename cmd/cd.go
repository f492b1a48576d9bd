package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewCdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cd [folder]",
		Short: "Change the current folder",
		Long: `Move the cursor into a folder. The argument is a folder id, the title
of a folder in the current listing, ".." for the parent, or "/" for the
root level. Without an argument the cursor returns to root.

Changing folders drops any note focus; listings and new notes are scoped
to the new folder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}

			if arg == ".." {
				chain, err := sess.Breadcrumb()
				if err != nil {
					return fmt.Errorf("resolve parent: %w", err)
				}
				if len(chain) < 2 {
					sess.Navigate(nil)
				} else {
					parent := chain[len(chain)-2].ID
					sess.Navigate(&parent)
				}
			} else {
				dest, err := resolveFolder(sess, arg)
				if err != nil {
					return err
				}
				sess.Navigate(dest)
			}
			config.SaveState(sess)

			crumbs, err := breadcrumbString(sess)
			if err != nil {
				return err
			}
			fmt.Println(crumbs)
			return nil
		},
	}

	return cmd
}

func NewPwdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pwd",
		Short: "Print the current folder path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			crumbs, err := breadcrumbString(sess)
			if err != nil {
				return fmt.Errorf("resolve breadcrumb: %w", err)
			}
			fmt.Println(crumbs)
			return nil
		},
	}

	return cmd
}
