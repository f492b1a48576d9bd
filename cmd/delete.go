package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/store"
)

func NewDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:     "rm [id]",
		Short:   "Delete a note or an empty folder",
		Aliases: []string{"delete"},
		Long: `Delete an item. Without an id the currently focused item is deleted.

Folders that still contain items are refused; move or delete their
contents first. Deletion asks for confirmation unless --yes is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if len(args) > 0 {
				target, ok := sess.Store().GetByID(args[0])
				if !ok {
					return fmt.Errorf("delete: %w", store.ErrNotFound)
				}
				if target.IsFolder() {
					sess.Navigate(&target.ID)
				} else if _, err := sess.OpenNote(target.ID); err != nil {
					return err
				}
			}

			focused, ok := sess.Focused()
			if !ok {
				return fmt.Errorf("nothing to delete; pass an id")
			}

			if !skipConfirm {
				fmt.Printf("Delete %q? [y/N] ", focused.Title)
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			if err := sess.Delete(); err != nil {
				var notEmpty *store.NotEmptyError
				if errors.As(err, &notEmpty) {
					return fmt.Errorf("folder %q is not empty (%d items); move or delete its contents first",
						focused.Title, notEmpty.Children)
				}
				return fmt.Errorf("delete: %w", err)
			}
			config.SaveState(sess)

			fmt.Printf("Deleted %s\n", focused.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
