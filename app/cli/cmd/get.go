package cmd

import (
	"context"
	"log"
	"os"

	"framechain/app/cli/cmd/client"
	"framechain/app/cli/cmd/common"
	"framechain/pkg/api"

	"github.com/spf13/cobra"
)

// NewGetCommand returns a new instance of a framechain command
func NewGetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:  "get",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}

			state, err := cli.RunState(context.Background(), args[0])
			if err != nil {
				log.Fatal(err)
			}
			common.PrintRun(os.Stdout, api.RunState(state), common.PrintOptions{})
		},
	}
	return command
}
