package main

import (
	"os"
	"strings"

	"framechain/pkg/assemble"
	"framechain/pkg/broker"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	envQueue    = "ASSEMBLER_QUEUE"
	envExchange = "CHAIN_EVENTS_EXCHANGE"
)

func main() {
	ctx := context.Background()

	qname := os.Getenv(envQueue)
	if qname == "" {
		qname = "framechain.q.assembler"
	}
	exchange := os.Getenv(envExchange)
	if exchange == "" {
		exchange = "framechain.ex.runs"
	}

	b, err := broker.NewFromEnv(ctx)
	if err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "cannot create broker"))
		os.Exit(1)
	}
	defer b.Close()

	if err := b.CreateQueue(ctx, qname, exchange); err != nil {
		ctx.Logger().Fatal(errors.Wrapf(err, "cannot create queue %s", qname))
		os.Exit(1)
	}

	a := assemble.New(func(ctx context.Context, p assemble.Playlist) {
		urls := make([]string, len(p.Clips))
		for i, c := range p.Clips {
			urls[i] = c.VideoURL
		}
		ctx.Logger().Infof("run %s finished with status %s, %d clips for %ds: %s",
			p.RunID, p.Status, len(p.Clips), p.AchievedDuration, strings.Join(urls, " "))
	})

	ctx.Logger().Infof("assembling playlists from queue %s", qname)
	if err := b.Receive(ctx, a.Handle, nil, qname); err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "receive loop stopped"))
		os.Exit(1)
	}
}
