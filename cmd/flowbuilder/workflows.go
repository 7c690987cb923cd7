package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowbuilder/pkg/cmd"
	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/log"
	"github.com/dukex/flowbuilder/pkg/models"
)

var databaseURLFlag = &cli.StringFlag{
	Name:     "database-url",
	Usage:    "Database connection URL for persistence",
	Required: true,
	Sources:  cli.EnvVars("DATABASE_URL"),
}

func NewWorkflowsCommand() *cli.Command {
	return &cli.Command{
		Name:    "workflows",
		Aliases: []string{"wf"},
		Usage:   "Manage the saved workflow catalog",
		Flags:   []cli.Flag{databaseURLFlag},
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved workflows",
				Action: func(ctx context.Context, command *cli.Command) error {
					return withCatalog(ctx, command, func(machine *editor.Machine, state editor.State) error {
						out := writer(command)

						fmt.Fprintln(out, "Saved workflows:")
						fmt.Fprintln(out, "================")

						for _, workflow := range state.Workflows {
							fmt.Fprintf(out, "%s\t%s\t%d nodes\t%d edges\t%s\n",
								workflow.ID, workflow.Name, len(workflow.Nodes), len(workflow.Edges),
								workflow.UpdatedAt.Format("2006-01-02 15:04:05"))
						}

						fmt.Fprintf(out, "\nTotal: %d\n", len(state.Workflows))

						return nil
					})
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a saved workflow",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					id := command.Args().First()
					if id == "" {
						return cli.Exit("a workflow id is required", 2)
					}

					return withCatalog(ctx, command, func(machine *editor.Machine, state editor.State) error {
						if models.FindWorkflow(state.Workflows, id) == nil {
							return cli.Exit(fmt.Sprintf("workflow %s not found", id), 1)
						}

						after := machine.Apply(ctx, state, editor.DeleteWorkflow{ID: id})
						if after.Issues.HasBlocking() {
							return fmt.Errorf("failed to delete workflow: %s", strings.Join(after.Issues.Messages(), "; "))
						}

						fmt.Fprintf(writer(command), "Deleted workflow %s\n", id)

						return nil
					})
				},
			},
			{
				Name:      "export",
				Usage:     "Print the export document of a saved workflow",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					id := command.Args().First()
					if id == "" {
						return cli.Exit("a workflow id is required", 2)
					}

					return withCatalog(ctx, command, func(machine *editor.Machine, state editor.State) error {
						if models.FindWorkflow(state.Workflows, id) == nil {
							return cli.Exit(fmt.Sprintf("workflow %s not found", id), 1)
						}

						opened := machine.Apply(ctx, state, editor.OpenWorkflow{ID: id})

						doc, issues := editor.Export(opened, opened.CurrentWorkflow().Name)
						if doc == nil {
							return cli.Exit(fmt.Sprintf("workflow %s cannot be exported: %s", id, strings.Join(issues.Messages(), "; ")), 1)
						}

						payload, err := document.NewCodec(validator.New(validator.WithRequiredStructEnabled())).Encode(doc)
						if err != nil {
							return err
						}

						_, err = fmt.Fprintln(writer(command), string(payload))

						return err
					})
				},
			},
		},
	}
}

// withCatalog opens the gateway named by --database-url, loads the catalog and hands both to fn.
func withCatalog(ctx context.Context, command *cli.Command, fn func(*editor.Machine, editor.State) error) error {
	logger := log.WithModule("cli")

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	machine := editor.NewMachine(persistence, logger)

	state := machine.Apply(ctx, editor.NewState(), editor.LoadAllWorkflows{})
	if state.Issues.HasBlocking() {
		return fmt.Errorf("failed to load workflows: %s", strings.Join(state.Issues.Messages(), "; "))
	}

	return fn(machine, state)
}

func writer(command *cli.Command) io.Writer {
	if root := command.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}

	return os.Stdout
}
