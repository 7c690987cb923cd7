package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowbuilder/pkg/cmd"
)

func NewKindsCommand() *cli.Command {
	return &cli.Command{
		Name:  "kinds",
		Usage: "List the node kinds a workflow can be built from",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print each kind's config schema",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			palette := cmd.NewRegistry(slog.Default())

			out := writer(command)

			for _, nodeType := range palette.GetAvailableNodes() {
				unique := ""
				if nodeType.Unique {
					unique = " (one per workflow)"
				}

				fmt.Fprintf(out, "%-14s %s: %s%s\n", nodeType.Kind, nodeType.Label, nodeType.Description, unique)

				if command.Bool("schema") {
					schema, err := json.MarshalIndent(nodeType.ConfigSchema, "  ", "  ")
					if err != nil {
						return fmt.Errorf("failed to encode schema: %w", err)
					}

					fmt.Fprintf(out, "  %s\n", schema)
				}
			}

			return nil
		},
	}
}
