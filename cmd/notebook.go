package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd/config"
	"github.com/mattsolo1/notekeep/pkg/notebook"
)

func NewNotebookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebook",
		Aliases: []string{"nb"},
		Short:   "Manage named notebooks",
		Long: `Each notebook is an isolated note collection with its own document,
backup and search index. All other commands operate on the active
notebook; "notebook use" switches it.`,
	}

	cmd.AddCommand(newNotebookListCmd())
	cmd.AddCommand(newNotebookCreateCmd())
	cmd.AddCommand(newNotebookUseCmd())
	cmd.AddCommand(newNotebookRemoveCmd())

	return cmd
}

func newNotebookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered notebooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.OpenRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			notebooks, err := reg.List()
			if err != nil {
				return err
			}
			active, err := reg.Active()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  NAME\tDATA DIR")
			for _, n := range notebooks {
				marker := " "
				if n.Name == active.Name {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s\n", marker, n.Name, n.DataDir)
			}
			return w.Flush()
		},
	}
}

func newNotebookCreateCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.OpenRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			n := &notebook.Notebook{Name: args[0], DataDir: dataDir}
			if err := reg.Add(n); err != nil {
				return err
			}
			if err := n.EnsureDataDir(); err != nil {
				return err
			}

			fmt.Printf("Created notebook %s (%s)\n", n.Name, n.DataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (default is a subdirectory named after the notebook)")
	return cmd
}

func newNotebookUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.OpenRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			n, err := reg.Use(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Switched to notebook %s\n", n.Name)
			return nil
		},
	}
}

func newNotebookRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Unregister a notebook (its files are kept on disk)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.OpenRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			if err := reg.Remove(args[0]); err != nil {
				return err
			}

			fmt.Printf("Removed notebook %s\n", args[0])
			return nil
		},
	}
}
