package cmd

import (
	"context"
	"fmt"
	"log"

	"framechain/app/cli/cmd/client"
	"framechain/pkg/api"
	pclient "framechain/pkg/client"

	"github.com/spf13/cobra"
)

type submitOpts struct {
	name     string // --name
	prompt   string // --prompt
	style    string // --style
	duration int    // --duration
	segment  int    // --segment
	premium  bool   // --premium
	watch    bool   // --watch
}

// NewSubmitCommand returns a new instance of a framechain command
func NewSubmitCommand() *cobra.Command {
	var submitOpts submitOpts
	command := &cobra.Command{
		Use:   "submit",
		Short: "submit a chained video generation run",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}

			ctx := context.Background()
			rid, err := cli.Submit(ctx, pclient.SubmitRequest{
				RunSpec: api.RunSpec{
					Name:            submitOpts.name,
					Prompt:          submitOpts.prompt,
					Style:           submitOpts.style,
					TargetDuration:  submitOpts.duration,
					SegmentDuration: submitOpts.segment,
					Premium:         submitOpts.premium,
				},
			})
			if err != nil {
				log.Fatal(err)
			}

			if submitOpts.watch {
				if err := watch(ctx, rid); err != nil {
					log.Fatal(err)
				}
			} else {
				fmt.Printf("Run submitted with run ID %s\n", rid)
			}
		},
	}
	command.Flags().StringVar(&submitOpts.name, "name", "", "human readable name of the run")
	command.Flags().StringVarP(&submitOpts.prompt, "prompt", "p", "", "narrative prompt driving the whole video")
	command.Flags().StringVar(&submitOpts.style, "style", "", "visual style tag appended to every image prompt")
	command.Flags().IntVarP(&submitOpts.duration, "duration", "d", 0, "target total duration in seconds")
	command.Flags().IntVarP(&submitOpts.segment, "segment", "s", 5, fmt.Sprintf("segment duration in seconds, one of %v", api.SupportedSegmentDurations))
	command.Flags().BoolVar(&submitOpts.premium, "premium", false, "materialize predicted end frames for dual-keyframe generation")
	command.Flags().BoolVarP(&submitOpts.watch, "watch", "w", false, "watch the run until it completes")

	return command
}
