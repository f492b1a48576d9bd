package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notekeep/cmd"
	"github.com/mattsolo1/notekeep/cmd/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nk",
		Short: "A local-first hierarchical note store",
		Long: `nk keeps notes and folders in a single local JSON document with
crash-safe writes and a one-step backup. Navigate folders with cd/ls,
create notes with new, and search everything with search.`,
		SilenceUsage: true,
	}

	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewNewCmd())
	rootCmd.AddCommand(cmd.NewMkdirCmd())
	rootCmd.AddCommand(cmd.NewOpenCmd())
	rootCmd.AddCommand(cmd.NewEditCmd())
	rootCmd.AddCommand(cmd.NewDeleteCmd())
	rootCmd.AddCommand(cmd.NewMoveCmd())
	rootCmd.AddCommand(cmd.NewCdCmd())
	rootCmd.AddCommand(cmd.NewPwdCmd())
	rootCmd.AddCommand(cmd.NewPinCmd())
	rootCmd.AddCommand(cmd.NewTreeCmd())
	rootCmd.AddCommand(cmd.NewSearchCmd())
	rootCmd.AddCommand(cmd.NewDoctorCmd())
	rootCmd.AddCommand(cmd.NewExportCmd())
	rootCmd.AddCommand(cmd.NewImportCmd())
	rootCmd.AddCommand(cmd.NewNotebookCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
