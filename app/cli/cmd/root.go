package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns a new instance of a framechain command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "framechain",
		Short: "framechain is the command line interface to the framechain controller",
		Run: func(cmd *cobra.Command, args []string) {

		},
	}

	rootCmd.AddCommand(NewSubmitCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewListCommand())
	return rootCmd
}
