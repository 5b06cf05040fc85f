package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/oceanbench/woss"
	"github.com/oceanbench/woss/control"
	"github.com/oceanbench/woss/engine"
)

// query runs a single tx/rx link through a Controller end to end: build
// the flat demo providers, wire a Controller against the given engine
// binary and work directory, resolve the Woss, and print the coherent
// pressure and first-frequency arrival structure at the query instant.
func query(c *cli.Context) error {
	tx := woss.NewCoordZ(c.Float64("tx-lat"), c.Float64("tx-lon"), c.Float64("tx-depth"))
	rx := woss.NewCoordZ(c.Float64("rx-lat"), c.Float64("rx-lon"), c.Float64("rx-depth"))

	providers := newFlatProviders(c.Float64("water-depth"), c.Float64("sound-speed"))

	cfg := control.Config{
		EnginePath:         c.String("engine-path"),
		WorkDir:            c.String("work-dir"),
		EquivalenceRadiusM: c.Float64("equivalence-radius"),
		MaxConcurrentLinks: c.Int("max-concurrent-links"),
		ResultDBURI:        c.String("result-db-uri"),
		ResultDBConfigURI:  c.String("result-db-config"),
	}

	ctrl, err := control.New(providers, woss.NewDefaultDefinitionRegistry(), cfg, engine.ExecInvoker{})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	start := woss.NewTime(c.Int("year"), time.Month(c.Int("month")), c.Int("day"), 0, 0, 0)
	end := woss.NewTime(c.Int("year"), time.Month(c.Int("month")), c.Int("day"), 23, 59, 59)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, ta, ok := ctrl.Query(ctx, tx, rx, start, end, start)
	if !ok {
		return fmt.Errorf("wossctl: query did not resolve to a valid result")
	}

	fmt.Printf("pressure: %+v\n", p.Complex())
	fmt.Printf("arrivals: %d\n", len(ta.Arrivals()))

	return nil
}

func main() {
	app := &cli.App{
		Name:  "wossctl",
		Usage: "drive the World Ocean Simulation System acoustic channel orchestrator from the command line",
		Commands: []*cli.Command{
			{
				Name:  "query",
				Usage: "resolve a single tx/rx acoustic channel and print the coherent pressure and arrival count",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "tx-lat", Required: true},
					&cli.Float64Flag{Name: "tx-lon", Required: true},
					&cli.Float64Flag{Name: "tx-depth", Required: true},
					&cli.Float64Flag{Name: "rx-lat", Required: true},
					&cli.Float64Flag{Name: "rx-lon", Required: true},
					&cli.Float64Flag{Name: "rx-depth", Required: true},
					&cli.Float64Flag{Name: "water-depth", Value: 100},
					&cli.Float64Flag{Name: "sound-speed", Value: 1500},
					&cli.StringFlag{Name: "engine-path", Required: true, Usage: "path to the bellhop.exe binary"},
					&cli.StringFlag{Name: "work-dir", Required: true, Usage: "directory for per-run engine working directories"},
					&cli.Float64Flag{Name: "equivalence-radius", Value: 0, Usage: "metres within which two coordinates are treated as the same link"},
					&cli.IntFlag{Name: "max-concurrent-links", Value: 0, Usage: "0 runs synchronously; >0 bounds a pond worker pool"},
					&cli.StringFlag{Name: "result-db-uri", Usage: "optional TileDB array URI for the persistent result cache"},
					&cli.StringFlag{Name: "result-db-config", Usage: "optional TileDB config file URI"},
					&cli.IntFlag{Name: "year", Value: 2024},
					&cli.IntFlag{Name: "month", Value: 1},
					&cli.IntFlag{Name: "day", Value: 1},
				},
				Action: query,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
