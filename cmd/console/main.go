package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newRootCommand().Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	a := &app{}
	return &cli.Command{
		Name:  "console",
		Usage: "Tool rental management console",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config/config.dev.yaml", Usage: "path to configuration file"},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			toolsCommand(a),
			clientsCommand(a),
			loansCommand(a),
			kardexCommand(a),
			reportsCommand(a),
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func idFlag() cli.Flag {
	return &cli.Int64Flag{Name: "id", Required: true}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "first delivery date, yyyy-mm-dd"},
		&cli.StringFlag{Name: "to", Usage: "last delivery date, yyyy-mm-dd"},
	}
}
