package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
)

func NewSearchCmd() *cobra.Command {
	var (
		searchType  string
		searchLimit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across all folders",
		Long: `Search every note and folder title (and note content) in the
collection, regardless of the current folder. The index is rebuilt from
the notes document before searching, so results are always current.

Examples:
  nk search "authentication"
  nk search "todo" -t note
  nk search "api" --limit 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := config.OpenSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := sess.RebuildIndex(); err != nil {
				return fmt.Errorf("rebuild search index: %w", err)
			}

			query := strings.Join(args, " ")
			results, err := sess.SearchAll(query, searchType, searchLimit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if len(results) == 0 {
				fmt.Printf("No results for %q\n", query)
				return nil
			}
			printItemsTable(results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "", "Restrict to \"note\" or \"folder\"")
	cmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of results")

	return cmd
}
