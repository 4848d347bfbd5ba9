package commands

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/acorn-io/acorn-registry/pkg/indexer"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

type eventsCommand struct{}

func (e *eventsCommand) Execute(c *cli.Context) error {
	return withRegistry(c, func(r *registry.Registry) error {
		enc := json.NewEncoder(c.App.Writer)
		counts := make(map[string]int)
		emit := func(event registry.LoggedEvent) error {
			counts[string(event.Event.Kind())]++
			return enc.Encode(eventResponse(event.Seq, event.TxID, event.Event))
		}

		if !c.Bool("follow") {
			events, err := r.Events(c.Uint64("after"), c.Int("limit"))
			if err != nil {
				return err
			}
			for _, event := range events {
				if err := emit(event); err != nil {
					return err
				}
			}
			printCounts(c, counts)
			return nil
		}

		ctx := signals.SetupSignalContext()
		log := logrus.WithField("command", "events")

		idx := indexer.New(r, c.Uint64("after"), c.Duration("interval"))
		idx.Run(ctx.Done(), emit)

		log.Infof("stopped after seq %d", idx.Last())
		printCounts(c, counts)
		return nil
	})
}

func printCounts(c *cli.Context, counts map[string]int) {
	kinds := maps.Keys(counts)
	sort.Strings(kinds)
	for _, kind := range kinds {
		summary(c, "%-22s %d", kind, counts[kind])
	}
}

func eventsCmd() *cli.Command {
	cmd := eventsCommand{}

	flags := []cli.Flag{
		&cli.Uint64Flag{
			Name:  "after",
			Usage: "Only show events with a sequence number greater than this",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of events to show, 0 for all (ignored with --follow)",
		},
		&cli.BoolFlag{
			Name:  "follow",
			Usage: "Keep polling for new events until interrupted",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Poll interval for --follow",
			Value: 2 * time.Second,
		},
	}

	return &cli.Command{
		Name:   "events",
		Usage:  "print the registry event log as JSON lines",
		Action: cmd.Execute,
		Flags:  append(append(flags, StoreFlags()...), GlobalFlags()...),
		Before: Before,
	}
}
