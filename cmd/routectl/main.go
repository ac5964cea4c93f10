// Command routectl runs route queries and map checks offline, without the server.
//
// Subcommands:
//   - find: compute and draw a route on a map
//   - validate: check map files, including that every park and supercharger
//     can be reached from home
//   - analyze: summarize tiles and the worst route distance to a charger
//   - heuristics: list heuristics, optionally scoring a displacement
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "routectl",
		Usage:   "Offline route planning for road maps",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "maps",
				Usage:   "directory containing road maps",
				Sources: cli.EnvVars("MAPS_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "find",
				Usage:     "compute a route between two cells",
				ArgsUsage: "MAP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "start cell as x,y", Required: true},
					&cli.StringFlag{Name: "to", Usage: "goal cell as x,y", Required: true},
					&cli.StringFlag{Name: "heuristic", Usage: "heuristic name (defaults to the map setting)"},
					&cli.StringFlag{Name: "algorithm", Usage: "astar or dijkstra (defaults to the map setting)"},
					&cli.BoolFlag{Name: "diagonal", Usage: "allow diagonal moves"},
					&cli.BoolFlag{Name: "flying", Usage: "ignore obstacles"},
					&cli.IntFlag{Name: "overflow", Usage: "maximum search steps", Value: pathfind.DefaultOverflow},
				},
				Action: runFind,
			},
			{
				Name:      "validate",
				Usage:     "validate map files (all maps when none are given)",
				ArgsUsage: "[MAP...]",
				Action:    runValidate,
			},
			{
				Name:      "analyze",
				Usage:     "summarize maps and their charger coverage",
				ArgsUsage: "[MAP...]",
				Action:    runAnalyze,
			},
			{
				Name:  "heuristics",
				Usage: "list heuristics; with --dx/--dy print each score",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "dx", Usage: "horizontal displacement"},
					&cli.FloatFlag{Name: "dy", Usage: "vertical displacement"},
				},
				Action: runHeuristics,
			},
		},
	}
}
