// Package main provides the flowbuilder command line tool.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowbuilder/pkg/log"
)

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  "flowbuilder",
		Usage:                 "Validate workflow documents and manage the workflow catalog",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewKindsCommand(),
			NewWorkflowsCommand(),
		},
	}
}

func main() {
	err := newRootCommand().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
