package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/validation"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate an exported workflow document",
		ArgsUsage: "<file>",
		Action: func(_ context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return cli.Exit("a document file is required", 2)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			codec := document.NewCodec(validator.New(validator.WithRequiredStructEnabled()))

			doc, err := codec.Decode(raw)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			out := writer(command)
			issues := validation.Validate(doc.Nodes, doc.Edges)

			fmt.Fprintf(out, "Workflow: %s (%d nodes, %d edges)\n", doc.Name, len(doc.Nodes), len(doc.Edges))

			for _, issue := range issues {
				fmt.Fprintf(out, "  [%s] %s\n", issue.Severity, issue.Message)
			}

			if issues.HasBlocking() {
				return cli.Exit(fmt.Sprintf("found %d blocking issues", len(issues.Blocking())), 1)
			}

			fmt.Fprintln(out, "Workflow is valid")

			return nil
		},
	}
}
