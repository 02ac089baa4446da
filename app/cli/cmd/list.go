package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"framechain/app/cli/cmd/client"

	"github.com/spf13/cobra"
)

// NewListCommand returns a new instance of a framechain command
func NewListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}

			runs, err := cli.ListRuns(context.Background())
			if err != nil {
				log.Fatal(err)
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tNAME")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\n", r.RunID, r.Name)
			}
			tw.Flush()
		},
	}
	return command
}
