package cmd

import (
	"context"
	"log"
	"time"

	"framechain/app/cli/cmd/client"
	"framechain/app/cli/cmd/common"
	"framechain/pkg/api"

	tm "github.com/buger/goterm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewWatchCommand returns a new instance of a framechain command
func NewWatchCommand() *cobra.Command {
	command := &cobra.Command{
		Use:  "watch",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := watch(context.Background(), args[0]); err != nil {
				log.Fatal(err)
			}
		},
	}
	return command
}

func watch(ctx context.Context, rid string) error {
	cli, err := client.New()
	if err != nil {
		return errors.Wrap(err, "cannot create framechain client")
	}
	tm.Clear()
	for {
		state, err := cli.RunState(ctx, rid)
		if err != nil {
			return errors.Wrapf(err, "cannot get state of run %s", rid)
		}
		tm.MoveCursor(1, 1)
		common.PrintRun(tm.Screen, api.RunState(state), common.PrintOptions{})
		tm.Flush()
		if state.Status.Finished() {
			break
		}
		time.Sleep(1 * time.Second)
	}
	return nil
}
